// Package ewvm models the output listing grammar of spec.md §6: a flat
// sequence of labels, instructions, and comments that prints directly to
// the EWVM assembly text the compiler emits. EWVM is a textual assembly
// target, not a binary opcode stream, so there is no separate "assemble"
// step — a Chunk renders straight to the listing.
package ewvm

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is one element of a Chunk: a Label, an Instruction, or a Comment.
type Item interface {
	itemNode()
}

// Label is a jump target, printed as `NAME:` at column 0.
type Label struct {
	Name string
}

func (Label) itemNode() {}

// Instruction is one opcode with zero or more arguments, printed at one
// level of indentation (except START, per spec.md §6).
type Instruction struct {
	Op   string
	Args []Arg
}

func (Instruction) itemNode() {}

// Inst is a convenience constructor for an Instruction with Arg literals.
func Inst(op string, args ...Arg) Instruction {
	return Instruction{Op: op, Args: args}
}

// Comment is a source-level annotation, printed at one level of
// indentation prefixed by `// `. Comments are stripped entirely before
// printing when debug symbols are disabled (spec.md §4.7, §6).
type Comment struct {
	Text string
}

func (Comment) itemNode() {}

// Arg is one printed instruction argument: an integer, a real, a string,
// or a label reference (spec.md §6 "Argument encoding").
type Arg interface {
	argString() (string, *ArgWarning)
}

// ArgWarning is returned alongside an Arg's rendering when the encoding
// lost information — currently only string literals containing `"`, which
// are deleted with a warning (spec.md §6).
type ArgWarning struct {
	Message string
}

// IntArg prints as a plain decimal integer.
type IntArg int64

func (a IntArg) argString() (string, *ArgWarning) { return strconv.FormatInt(int64(a), 10), nil }

// RealArg prints with exactly 10 fractional digits (spec.md §6).
type RealArg float64

func (a RealArg) argString() (string, *ArgWarning) { return fmt.Sprintf("%.10f", float64(a)), nil }

// StrArg prints double-quoted, with `\n` escaped and `"` characters
// deleted (with a warning noting the loss) — spec.md §6.
type StrArg string

func (a StrArg) argString() (string, *ArgWarning) {
	s := string(a)
	var warn *ArgWarning
	if strings.Contains(s, `"`) {
		s = strings.ReplaceAll(s, `"`, "")
		warn = &ArgWarning{Message: fmt.Sprintf("string literal %q had embedded quote characters removed", string(a))}
	}
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`, warn
}

// LabelArg prints as the referenced label's bare name.
type LabelArg string

func (a LabelArg) argString() (string, *ArgWarning) { return string(a), nil }

// Chunk is the accumulated instruction buffer for one compilation unit.
type Chunk struct {
	Items []Item
}

func (c *Chunk) Label(name string)              { c.Items = append(c.Items, Label{Name: name}) }
func (c *Chunk) Comment(text string)             { c.Items = append(c.Items, Comment{Text: text}) }
func (c *Chunk) Emit(op string, args ...Arg)     { c.Items = append(c.Items, Inst(op, args...)) }
func (c *Chunk) Append(i Instruction)            { c.Items = append(c.Items, i) }

// RemoveComments strips every Comment item, used when debug symbols are
// disabled (spec.md §4.7 "comments ... removed earlier by
// remove_ewvm_comments when debug symbols are disabled").
func (c *Chunk) RemoveComments() {
	out := c.Items[:0]
	for _, it := range c.Items {
		if _, ok := it.(Comment); ok {
			continue
		}
		out = append(out, it)
	}
	c.Items = out
}

// Print renders the chunk to the EWVM listing grammar of spec.md §6.
// Argument-encoding warnings (lossy string quoting) are returned alongside
// the text rather than raised, since they never fail compilation.
func (c *Chunk) Print() (string, []string) {
	var sb strings.Builder
	var warnings []string

	for _, it := range c.Items {
		switch v := it.(type) {
		case Label:
			sb.WriteString(v.Name)
			sb.WriteString(":\n")
		case Comment:
			sb.WriteString("  // ")
			sb.WriteString(v.Text)
			sb.WriteString("\n")
		case Instruction:
			if v.Op == "START" {
				sb.WriteString("START")
			} else {
				sb.WriteString("  ")
				sb.WriteString(v.Op)
			}
			for _, a := range v.Args {
				s, warn := a.argString()
				sb.WriteString(" ")
				sb.WriteString(s)
				if warn != nil {
					warnings = append(warnings, warn.Message)
				}
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), warnings
}

// Equal reports whether two item lists match item by item, comments
// included — used by the peephole optimizer's fixed-point check. Comments
// take part in the comparison whenever they are present; callers that want
// a comment-free comparison should RemoveComments first.
func Equal(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !itemEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func itemEqual(a, b Item) bool {
	switch av := a.(type) {
	case Label:
		bv, ok := b.(Label)
		return ok && av.Name == bv.Name
	case Comment:
		bv, ok := b.(Comment)
		return ok && av.Text == bv.Text
	case Instruction:
		bv, ok := b.(Instruction)
		if !ok || av.Op != bv.Op || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			as, _ := av.Args[i].argString()
			bs, _ := bv.Args[i].argString()
			if as != bs {
				return false
			}
		}
		return true
	}
	return false
}
