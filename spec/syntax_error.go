package spec

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	// lexical errors
	synErrEmptyLiteral = newSyntaxError("a literal must include at least one character")

	// syntax errors
	synErrInvalidToken         = newSyntaxError("invalid token")
	synErrNoProductionName     = newSyntaxError("a production name is missing")
	synErrNoColon              = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon          = newSyntaxError("the semicolon is missing at the last of an alternative")
	synErrNoDirectiveName      = newSyntaxError("a directive needs a name")
	synErrDirNoSemicolon       = newSyntaxError("a directive must be followed by ;")
	synErrLiteralProductionLHS = newSyntaxError("a literal cannot be the left-hand side of a production")

	// YAML notation errors
	synErrYAMLInvalidDocument    = newSyntaxError("a grammar document must be a mapping")
	synErrYAMLInvalidProductions = newSyntaxError("productions must be a mapping from a non-terminal to its alternatives")
	synErrYAMLInvalidAlternative = newSyntaxError("an alternative must be a sequence of symbols or a space-separated string")
)
