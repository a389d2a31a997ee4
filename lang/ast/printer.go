package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes a human-readable, indented rendering of a program (a slice
// of top-level Expr) to Output, one node per line with its source span.
type Printer struct {
	Output io.Writer
}

// Print renders every top-level expression in prog.
func (p Printer) Print(prog []Expr) error {
	for _, e := range prog {
		if err := p.print(e); err != nil {
			return err
		}
	}
	return nil
}

func (p Printer) print(root Expr) error {
	var werr error
	depth := 0
	var v VisitorFunc
	v = func(n Node, dir VisitDirection) Visitor {
		if dir == VisitExit {
			depth--
			return nil
		}
		if werr != nil {
			return nil
		}
		start, end := n.Span()
		indent := strings.Repeat("  ", depth)
		if _, err := fmt.Fprintf(p.Output, "%s%s %s..%s\n", indent, describe(n), start.String(), end.String()); err != nil {
			werr = err
			return nil
		}
		depth++
		return v
	}
	Walk(v, root)
	return werr
}

func describe(n Node) string {
	switch v := n.(type) {
	case *BinaryExpr:
		return fmt.Sprintf("BinaryExpr(%s)", binaryOpName(v.Op))
	case *NumberExpr:
		return fmt.Sprintf("NumberExpr(%g)", v.Value)
	case *BoolExpr:
		return fmt.Sprintf("BoolExpr(%t)", v.Value)
	case *VarGetExpr:
		return fmt.Sprintf("VarGetExpr(%s)", v.Name)
	case *VarSetExpr:
		return fmt.Sprintf("VarSetExpr(%s)", v.Name)
	case *FunExpr:
		return fmt.Sprintf("FunExpr(%s, args=%v)", v.Name, v.Decl.Args)
	case *CallExpr:
		return fmt.Sprintf("CallExpr(argc=%d)", len(v.Args))
	case *BlockExpr:
		return "BlockExpr"
	case *PutsExpr:
		return "PutsExpr"
	default:
		return fmt.Sprintf("%T", n)
	}
}

func binaryOpName(op BinaryOp) string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Equal:
		return "=="
	case BangEqual:
		return "!="
	case Less:
		return "<"
	case LessEq:
		return "<="
	case Greater:
		return ">"
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}
