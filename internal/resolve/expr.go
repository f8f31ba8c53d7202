package resolve

import "ferro/internal/source"

// ExprKind is the minimal expression shape the diagnosis engine inspects.
// Only the parent-context heuristics need it, so anything beyond paths,
// references, calls and member accesses collapses into ExprOther.
type ExprKind uint8

const (
	ExprOther ExprKind = iota
	ExprPath
	ExprRef
	ExprCall
	ExprField
	ExprMethodCall
)

// Expr is a skeletal expression node recorded by the resolver for the path
// currently being diagnosed and its enclosing expression.
type Expr struct {
	Kind ExprKind
	Span source.Span

	// Path is set for ExprPath.
	Path []Segment
	// Inner is the referent for ExprRef.
	Inner *Expr
	// Callee and Args are set for ExprCall.
	Callee *Expr
	Args   []*Expr
	// Member and MemberSpan are set for ExprField and ExprMethodCall.
	Member     string
	MemberSpan source.Span
}
