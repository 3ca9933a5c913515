package op

type Op rune

const (
	Invalid Op = 0

	EOF Op = 1 << iota
	Ident
	Number
	Literal
	Sheet
	ErrorLit
	Add
	Sub
	Mul
	Div
	Pow
	Concat
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Comma
	Begin
	End
	RangeRef
	SheetRef
)

const (
	groupTok Op = 1 << 29
)

const (
	BegGrp = groupTok | Begin
	EndGrp = groupTok | End
)

var mapping = map[Op]string{
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Pow:      "^",
	Div:      "/",
	Concat:   "&",
	Eq:       "=",
	Ne:       "<>",
	Lt:       "<",
	Le:       "<=",
	Gt:       ">",
	Ge:       ">=",
	Comma:    ",",
	BegGrp:   "(",
	EndGrp:   ")",
	RangeRef: ":",
	SheetRef: "!",
}

func Symbol(oper Op) string {
	return mapping[oper]
}

func IsComparison(oper Op) bool {
	switch oper {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	default:
		return false
	}
}
