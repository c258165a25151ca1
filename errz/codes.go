package errz

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Source errors
//   - E2xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Source errors (E1xxx)
	E1001 ErrorCode = "E1001" // Could not open source
	E1002 ErrorCode = "E1002" // Could not read source

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Unmatched '['
	E2002 ErrorCode = "E2002" // Unmatched ']'
	E2003 ErrorCode = "E2003" // Invalid token

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Data pointer out of range
	E3002 ErrorCode = "E3002" // Write failed
	E3003 ErrorCode = "E3003" // Read failed
	E3004 ErrorCode = "E3004" // Unknown opcode
	E3005 ErrorCode = "E3005" // Step limit exceeded
	E3006 ErrorCode = "E3006" // Execution halted
	E3007 ErrorCode = "E3007" // Internal panic
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "could not open source",
	E1002: "could not read source",

	E2001: "unmatched '['",
	E2002: "unmatched ']'",
	E2003: "invalid token",

	E3001: "data pointer out of range",
	E3002: "write failed",
	E3003: "read failed",
	E3004: "unknown opcode",
	E3005: "step limit exceeded",
	E3006: "execution halted",
	E3007: "internal panic",
}

// Description returns a short description of the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}
