package value

var (
	ErrNull  = createError("#NULL!")
	ErrDiv0  = createError("#DIV/0!")
	ErrValue = createError("#VALUE!")
	ErrRef   = createError("#REF!")
	ErrName  = createError("#NAME?")
	ErrNum   = createError("#NUM!")
	ErrNA    = createError("#N/A")
)

var codes = []Error{
	ErrNull,
	ErrDiv0,
	ErrValue,
	ErrRef,
	ErrName,
	ErrNum,
	ErrNA,
}

// Error is both a value produced by an evaluation and the error returned by
// the operations that detect it.
type Error struct {
	code string
}

func createError(code string) Error {
	return Error{
		code: code,
	}
}

func Codes() []Error {
	return append([]Error(nil), codes...)
}

func ParseError(str string) (Error, bool) {
	for _, e := range codes {
		if e.code == str {
			return e, true
		}
	}
	return Error{}, false
}

func IsError(val Value) bool {
	_, ok := val.(Error)
	return ok
}

func (Error) Type() string {
	return TypeError
}

func (Error) Kind() ValueKind {
	return KindError
}

func (e Error) Error() string {
	return e.code
}

func (e Error) String() string {
	return e.code
}

func (e Error) Scalar() any {
	return e.code
}
