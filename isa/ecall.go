package isa

// EcallSignature describes a known ecall selector's contract: which
// registers are read as arguments, which are written as return values,
// and whether the call terminates the program (spec.md §4.6).
type EcallSignature struct {
	Selector   int
	Name       string
	Args       []Register
	Returns    []Register
	Terminates bool
}

var a0 = X10
var a1 = X11

var ecallTable = map[int]EcallSignature{
	1:  {Selector: 1, Name: "print_int", Args: []Register{a0}},
	4:  {Selector: 4, Name: "print_string", Args: []Register{a0}},
	5:  {Selector: 5, Name: "read_int", Returns: []Register{a0}},
	8:  {Selector: 8, Name: "read_string", Args: []Register{a0, a1}},
	9:  {Selector: 9, Name: "sbrk", Args: []Register{a0}, Returns: []Register{a0}},
	10: {Selector: 10, Name: "exit", Terminates: true},
	11: {Selector: 11, Name: "print_char", Args: []Register{a0}},
	12: {Selector: 12, Name: "read_char", Returns: []Register{a0}},
	17: {Selector: 17, Name: "exit2", Args: []Register{a0, a1}, Returns: []Register{a0}},
	30: {Selector: 30, Name: "time", Returns: []Register{a0, a1}},
	31: {Selector: 31, Name: "midi_out"},
	32: {Selector: 32, Name: "sleep", Args: []Register{a0}},
	33: {Selector: 33, Name: "midi_out_sync"},
	34: {Selector: 34, Name: "print_int_hex", Args: []Register{a0}},
	35: {Selector: 35, Name: "print_int_binary", Args: []Register{a0}},
	36: {Selector: 36, Name: "print_int_unsigned", Args: []Register{a0}},
	40: {Selector: 40, Name: "rand_seed", Args: []Register{a0, a1}},
	41: {Selector: 41, Name: "rand_int", Args: []Register{a0}, Returns: []Register{a0}},
	42: {Selector: 42, Name: "rand_int_range", Args: []Register{a0, a1}, Returns: []Register{a0}},
	43: {Selector: 43, Name: "rand_float", Args: []Register{a0}, Returns: []Register{a0}},
	50: {Selector: 50, Name: "confirm_dialog", Args: []Register{a0}, Returns: []Register{a0}},
	54: {Selector: 54, Name: "message_dialog", Args: []Register{a0, a1}},
	55: {Selector: 55, Name: "message_dialog_double", Args: []Register{a0}},
	56: {Selector: 56, Name: "message_dialog_string", Args: []Register{a0, a1}},
	57: {Selector: 57, Name: "input_dialog_int", Returns: []Register{a0, a1}},
	59: {Selector: 59, Name: "input_dialog_double", Returns: []Register{a0, a1}},
	62: {Selector: 62, Name: "input_dialog_string", Args: []Register{a0, a1}, Returns: []Register{a0}},
	63: {Selector: 63, Name: "open_dialog", Returns: []Register{a0, a1}},
	64: {Selector: 64, Name: "save_dialog", Returns: []Register{a0, a1}},
	93: {Selector: 93, Name: "exit", Terminates: true},

	1024: {Selector: 1024, Name: "open", Args: []Register{a0, a1, a1}, Returns: []Register{a0}},
}

// Ecall looks up a known selector's signature.
func Ecall(selector int) (EcallSignature, bool) {
	sig, ok := ecallTable[selector]
	return sig, ok
}

// IsTerminatingSelector reports whether selector unconditionally ends the
// program, used by the CFG builder's ecall-termination post-pass.
func IsTerminatingSelector(selector int) bool {
	return selector == 10 || selector == 93
}
