package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoStart         = newSemanticError("a grammar needs a start symbol or at least one production")
	semErrDirInvalidName  = newSemanticError("invalid directive name")
	semErrDirInvalidParam = newSemanticError("invalid parameter")
	semErrDuplicateDir    = newSemanticError("a directive must not be duplicated")
	semErrKindConflict    = newSemanticError("a symbol cannot be both a terminal and a non-terminal")
	semErrTerminalHead    = newSemanticError("a terminal symbol cannot be the left-hand side of a production")
	semErrInvalidName     = newSemanticError("invalid symbol name")
)
