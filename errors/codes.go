package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Syntax errors
//   - E2xxx: Compile errors
type ErrorCode string

const (
	// Syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Invalid number literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Unclosed delimiter

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Undeclared identifier
	E2002 ErrorCode = "E2002" // Unhandled operator
	E2003 ErrorCode = "E2003" // Missing result expression
	E2004 ErrorCode = "E2004" // Missing else branch
	E2005 ErrorCode = "E2005" // Function redefined
	E2006 ErrorCode = "E2006" // Undefined function
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "invalid number literal",
	E1003: "invalid syntax",
	E1004: "unclosed delimiter",

	E2001: "undeclared identifier",
	E2002: "unhandled operator",
	E2003: "missing result expression",
	E2004: "missing else branch",
	E2005: "function redefined",
	E2006: "undefined function",
}

// Description returns the short description for an error code.
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

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "syntax"
	case '2':
		return "compile"
	default:
		return "unknown"
	}
}
