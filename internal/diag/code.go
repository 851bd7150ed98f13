package diag

// Code identifies the exact kind of a diagnostic. Codes are grouped into
// families by leading digit, matching the contract the backend and any
// other downstream consumer rely on (spec §6).
type Code int

const (
	Null    Code = 0
	Default Code = 1

	ConfigError Code = 1000
)

// Lexer errors (2xxx).
const (
	LexerError Code = 2000 + iota
	UnexpectedChar
	UnclosedGrouping
	UnclosedComment
	ClosingUnopenedComment
	MixedLeftSpacing
	InconsistentLeftSpacing
	MalformedIndent
	TupleIndexOutOfRange
	UnexpectedDotInNumber
	UnexpectedExpInNumber
	DigitInWrongBase
	UnexpectedEndOfNumber
	InvalidCharAfterNumber
	UnterminatedStr
	InvalidEscSeq
	WordIsReserved
)

// The iota-based block above only works for one contiguous run anchored at
// LexerError's value; every family below restarts its own block so that a
// typo in one family can't silently renumber the next.
const (
	ParserError Code = 3000 + iota
	NotAnExpression
	NotAnIdentifier
	NumberOutOfRange
	NegativeOnUnsignedInteger
	NotAType
	UnexpectedToken
	LetWithoutTypeOrValue
	TypeofWithoutOpeningParen
	FuncWithoutOpeningParen
	UnexpectedClosingParen
	NotABlock
	UnexpectedTokenAfterDot
	ConditionalWithoutThenOrBlock
	WhileLoopWithoutDoOrBlock
	DoWhileLoopWithoutWhile
	FuncWithoutArrowOrBlock
	UnexpectedVarInExpression
	UnexpectedVarInAnnotation
	PosArgumentAfterNamedArgument
)

const (
	ParserWarning Code = 3500 + iota
	LoopWithTrueCondition
)

const (
	GlobalTypeError Code = 4000 + iota
	NamespaceInLocalScope
	NamespaceInStructDef
	StructInLocalScope
	NameAlreadyExists
	NameIsReserved
	UnknownAnnotationName
	UncheckableTypeofAnnotation
	DuplicateFunctionParameterName
	FunctionOverloadConflict
)

const (
	LocalTypeError Code = 5000 + iota
	NotAPossibleLValue
	YieldTypeMismatch
	LetTypeMismatch
	AssignmentTypeMismatch
	DefaultArgTypeMismatch
	FunctionReturnTypeMismatch
	UndeclaredName
	NotAVariable
	NotACallable
	AssignToImmutable
	AddressOfImmutable
	OperatorNotValidForExpr
	NoOperatorOverload
	DereferenceNonPointer
	DereferenceNullptr
	TupleIndexOutOfBounds
	InvalidTupleAccess
	ConditionNotBool
	WhileLoopYieldingNonUnit
	ConditionalBranchTypeMismatch
	YieldOutsideLocalScope
	BreakOutsideLoop
	ContinueOutsideLoop
	ReturnOutsideFunction
	PtrDerefOutsideUnsafeBlock
	NoMatchingFunctionOverload
	MultipleMatchingFunctionOverloads
)

const (
	LocalTypeWarning Code = 5500 + iota
	UnreachableStatement
	YieldTargetingLoop
	UnsafeBlockWithoutUnsafeStmt
	// PtrDerefOutsideUnsafeBlockWarning is PtrDerefOutsideUnsafeBlock
	// downgraded to a warning when the project configuration's unsafe key
	// is set (see nicocfg).
	PtrDerefOutsideUnsafeBlockWarning
)

const (
	BackendError Code = 7000 + iota
)

const (
	PostProcessingError Code = 8000 + iota
)

const (
	PostProcessingWarning Code = 8500 + iota
	SymbolTreeInInconsistentState
)

const (
	Malfunction Code = 9000 + iota
	UnknownError
	TestError
)

var codeNames = map[Code]string{
	UnexpectedChar:                     "UnexpectedChar",
	UnclosedGrouping:                   "UnclosedGrouping",
	UnclosedComment:                    "UnclosedComment",
	ClosingUnopenedComment:             "ClosingUnopenedComment",
	MixedLeftSpacing:                   "MixedLeftSpacing",
	InconsistentLeftSpacing:            "InconsistentLeftSpacing",
	MalformedIndent:                    "MalformedIndent",
	TupleIndexOutOfRange:               "TupleIndexOutOfRange",
	UnexpectedDotInNumber:              "UnexpectedDotInNumber",
	UnexpectedExpInNumber:              "UnexpectedExpInNumber",
	DigitInWrongBase:                   "DigitInWrongBase",
	UnexpectedEndOfNumber:              "UnexpectedEndOfNumber",
	InvalidCharAfterNumber:             "InvalidCharAfterNumber",
	UnterminatedStr:                    "UnterminatedStr",
	InvalidEscSeq:                      "InvalidEscSeq",
	WordIsReserved:                     "WordIsReserved",
	NotAnExpression:                    "NotAnExpression",
	NotAnIdentifier:                    "NotAnIdentifier",
	NumberOutOfRange:                   "NumberOutOfRange",
	NegativeOnUnsignedInteger:          "NegativeOnUnsignedInteger",
	NotAType:                           "NotAType",
	UnexpectedToken:                    "UnexpectedToken",
	LetWithoutTypeOrValue:              "LetWithoutTypeOrValue",
	TypeofWithoutOpeningParen:          "TypeofWithoutOpeningParen",
	FuncWithoutOpeningParen:            "FuncWithoutOpeningParen",
	UnexpectedClosingParen:             "UnexpectedClosingParen",
	NotABlock:                          "NotABlock",
	UnexpectedTokenAfterDot:            "UnexpectedTokenAfterDot",
	ConditionalWithoutThenOrBlock:      "ConditionalWithoutThenOrBlock",
	WhileLoopWithoutDoOrBlock:          "WhileLoopWithoutDoOrBlock",
	DoWhileLoopWithoutWhile:            "DoWhileLoopWithoutWhile",
	FuncWithoutArrowOrBlock:            "FuncWithoutArrowOrBlock",
	UnexpectedVarInExpression:          "UnexpectedVarInExpression",
	UnexpectedVarInAnnotation:          "UnexpectedVarInAnnotation",
	PosArgumentAfterNamedArgument:      "PosArgumentAfterNamedArgument",
	LoopWithTrueCondition:              "LoopWithTrueCondition",
	NamespaceInLocalScope:              "NamespaceInLocalScope",
	NamespaceInStructDef:               "NamespaceInStructDef",
	StructInLocalScope:                 "StructInLocalScope",
	NameAlreadyExists:                  "NameAlreadyExists",
	NameIsReserved:                     "NameIsReserved",
	UnknownAnnotationName:              "UnknownAnnotationName",
	UncheckableTypeofAnnotation:        "UncheckableTypeofAnnotation",
	DuplicateFunctionParameterName:     "DuplicateFunctionParameterName",
	FunctionOverloadConflict:           "FunctionOverloadConflict",
	NotAPossibleLValue:                 "NotAPossibleLValue",
	YieldTypeMismatch:                  "YieldTypeMismatch",
	LetTypeMismatch:                    "LetTypeMismatch",
	AssignmentTypeMismatch:             "AssignmentTypeMismatch",
	DefaultArgTypeMismatch:             "DefaultArgTypeMismatch",
	FunctionReturnTypeMismatch:         "FunctionReturnTypeMismatch",
	UndeclaredName:                     "UndeclaredName",
	NotAVariable:                       "NotAVariable",
	NotACallable:                       "NotACallable",
	AssignToImmutable:                  "AssignToImmutable",
	AddressOfImmutable:                 "AddressOfImmutable",
	OperatorNotValidForExpr:            "OperatorNotValidForExpr",
	NoOperatorOverload:                 "NoOperatorOverload",
	DereferenceNonPointer:              "DereferenceNonPointer",
	DereferenceNullptr:                 "DereferenceNullptr",
	TupleIndexOutOfBounds:              "TupleIndexOutOfBounds",
	InvalidTupleAccess:                 "InvalidTupleAccess",
	ConditionNotBool:                   "ConditionNotBool",
	WhileLoopYieldingNonUnit:           "WhileLoopYieldingNonUnit",
	ConditionalBranchTypeMismatch:      "ConditionalBranchTypeMismatch",
	YieldOutsideLocalScope:             "YieldOutsideLocalScope",
	BreakOutsideLoop:                   "BreakOutsideLoop",
	ContinueOutsideLoop:                "ContinueOutsideLoop",
	ReturnOutsideFunction:              "ReturnOutsideFunction",
	PtrDerefOutsideUnsafeBlock:         "PtrDerefOutsideUnsafeBlock",
	NoMatchingFunctionOverload:         "NoMatchingFunctionOverload",
	MultipleMatchingFunctionOverloads:  "MultipleMatchingFunctionOverloads",
	UnreachableStatement:               "UnreachableStatement",
	YieldTargetingLoop:                 "YieldTargetingLoop",
	UnsafeBlockWithoutUnsafeStmt:       "UnsafeBlockWithoutUnsafeStmt",
	PtrDerefOutsideUnsafeBlockWarning:  "PtrDerefOutsideUnsafeBlockWarning",
	SymbolTreeInInconsistentState:      "SymbolTreeInInconsistentState",
	UnknownError:                       "UnknownError",
	TestError:                         "TestError",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}

	return "Unknown"
}

// Family buckets a code by its leading digit, used to decide exit status
// in spec §6 (65 on frontend errors, 70 on backend errors, ...).
type Family int

const (
	FamilyNone Family = iota
	FamilyConfig
	FamilyLexer
	FamilyParser
	FamilyGlobalCheck
	FamilyLocalCheck
	FamilyBackend
	FamilyPostProcess
	FamilyMalfunction
)

// Family classifies c into one of the stage families.
func (c Code) Family() Family {
	switch {
	case c >= 9000:
		return FamilyMalfunction
	case c >= 8000:
		return FamilyPostProcess
	case c >= 7000:
		return FamilyBackend
	case c >= 5000:
		return FamilyLocalCheck
	case c >= 4000:
		return FamilyGlobalCheck
	case c >= 3000:
		return FamilyParser
	case c >= 2000:
		return FamilyLexer
	case c >= 1000:
		return FamilyConfig
	default:
		return FamilyNone
	}
}

// IsWarning reports whether c belongs to one of the *Warning sub-ranges.
// Warnings are reported but never flip the log's status to Error (spec §7).
func (c Code) IsWarning() bool {
	switch {
	case c >= 8500 && c < 9000:
		return true
	case c >= 5500 && c < 6000:
		return true
	case c >= 3500 && c < 4000:
		return true
	default:
		return false
	}
}
