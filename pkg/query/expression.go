package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cast"

	"github.com/trackspan/trackspan/pkg/iset"
	"github.com/trackspan/trackspan/pkg/util"
)

// Document is the open payload form the declarative layer evaluates:
// detection fields, or the nested roles of an earlier join.
type Document = map[string]any

// EvalCtx carries the interval under evaluation and a logger for tracing.
type EvalCtx struct {
	Payload Document
	Bounds  iset.Bounds3D
	Log     logr.Logger
}

// Expression is a parsed operator tree. Internal nodes hold an "@"-prefixed
// operator and its arguments; leaves hold a literal, where a string literal
// starting with "$." references a payload field ("$.score") or a bounds
// coordinate ("$.bounds.t1").
type Expression struct {
	Op      string
	Args    []Expression
	Literal any
}

// ParseExpression builds an expression from the generic value an unmarshaled
// YAML or JSON document yields. Operator nodes are single-key maps, for
// example {"@eq": ["$.class", true]}.
func ParseExpression(v any) (*Expression, error) {
	node, ok := v.(map[string]any)
	if !ok {
		return &Expression{Literal: v}, nil
	}

	if len(node) != 1 {
		return nil, NewInvalidQueryError(fmt.Sprintf(
			"expression node must hold exactly one operator, got %s", util.Stringify(node)))
	}

	for op, arg := range node {
		if !strings.HasPrefix(op, "@") {
			return nil, NewInvalidQueryError(fmt.Sprintf("unknown operator %q", op))
		}

		e := &Expression{Op: op}
		args, ok := arg.([]any)
		if !ok {
			args = []any{arg}
		}
		for _, a := range args {
			sub, err := ParseExpression(a)
			if err != nil {
				return nil, err
			}
			e.Args = append(e.Args, *sub)
		}
		return e, nil
	}

	return nil, NewInvalidQueryError("empty expression node")
}

// Evaluate computes the value of the expression against one interval.
func (e *Expression) Evaluate(ctx EvalCtx) (any, error) {
	if e.Op == "" {
		if ref, ok := e.Literal.(string); ok && strings.HasPrefix(ref, "$.") {
			v, err := resolveRef(ctx, ref)
			if err != nil {
				return nil, NewExpressionError(e, err)
			}
			return v, nil
		}
		return e.Literal, nil
	}

	switch e.Op {
	case "@bool":
		if err := e.arity(1); err != nil {
			return nil, err
		}
		v, err := e.Args[0].Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		ret, err := cast.ToBoolE(v)
		if err != nil {
			return nil, NewExpressionError(e, err)
		}
		ctx.Log.V(8).Info("eval ready", "expression", e.String(), "result", ret)
		return ret, nil

	case "@float":
		if err := e.arity(1); err != nil {
			return nil, err
		}
		v, err := e.Args[0].Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		ret, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, NewExpressionError(e, err)
		}
		ctx.Log.V(8).Info("eval ready", "expression", e.String(), "result", ret)
		return ret, nil

	case "@string":
		if err := e.arity(1); err != nil {
			return nil, err
		}
		v, err := e.Args[0].Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		ret, err := cast.ToStringE(v)
		if err != nil {
			return nil, NewExpressionError(e, err)
		}
		return ret, nil

	case "@not":
		if err := e.arity(1); err != nil {
			return nil, err
		}
		v, err := e.evalBool(ctx, 0)
		if err != nil {
			return nil, err
		}
		return !v, nil

	case "@and":
		for i := range e.Args {
			v, err := e.evalBool(ctx, i)
			if err != nil {
				return nil, err
			}
			if !v {
				return false, nil
			}
		}
		return true, nil

	case "@or":
		for i := range e.Args {
			v, err := e.evalBool(ctx, i)
			if err != nil {
				return nil, err
			}
			if v {
				return true, nil
			}
		}
		return false, nil

	case "@eq", "@ne":
		if err := e.arity(2); err != nil {
			return nil, err
		}
		a, err := e.Args[0].Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		b, err := e.Args[1].Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		eq := equalValues(a, b)
		if e.Op == "@ne" {
			eq = !eq
		}
		ctx.Log.V(8).Info("eval ready", "expression", e.String(), "result", eq)
		return eq, nil

	case "@lt", "@lte", "@gt", "@gte":
		if err := e.arity(2); err != nil {
			return nil, err
		}
		a, err := e.evalFloat(ctx, 0)
		if err != nil {
			return nil, err
		}
		b, err := e.evalFloat(ctx, 1)
		if err != nil {
			return nil, err
		}
		var ret bool
		switch e.Op {
		case "@lt":
			ret = a < b
		case "@lte":
			ret = a <= b
		case "@gt":
			ret = a > b
		case "@gte":
			ret = a >= b
		}
		return ret, nil

	default:
		return nil, NewExpressionError(e, fmt.Errorf("unknown operator %q", e.Op))
	}
}

func (e *Expression) arity(n int) error {
	if len(e.Args) != n {
		return NewExpressionError(e, fmt.Errorf("expected %d argument(s), got %d", n, len(e.Args)))
	}
	return nil
}

func (e *Expression) evalBool(ctx EvalCtx, i int) (bool, error) {
	v, err := e.Args[i].Evaluate(ctx)
	if err != nil {
		return false, err
	}
	ret, err := cast.ToBoolE(v)
	if err != nil {
		return false, NewExpressionError(e, err)
	}
	return ret, nil
}

func (e *Expression) evalFloat(ctx EvalCtx, i int) (float64, error) {
	v, err := e.Args[i].Evaluate(ctx)
	if err != nil {
		return 0, err
	}
	ret, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, NewExpressionError(e, err)
	}
	return ret, nil
}

// String renders the expression for error messages and tracing.
func (e *Expression) String() string {
	if e.Op == "" {
		return util.Stringify(e.Literal)
	}
	args := util.Map(func(a Expression) string { return a.String() }, e.Args)
	return fmt.Sprintf("%s(%s)", e.Op, strings.Join(args, ","))
}

// equalValues compares with coercion: numeric when both sides cast to float
// (bools count as 0/1), string otherwise, deep equality as a last resort.
func equalValues(a, b any) bool {
	fa, erra := cast.ToFloat64E(a)
	fb, errb := cast.ToFloat64E(b)
	if erra == nil && errb == nil {
		return fa == fb
	}

	sa, erra := cast.ToStringE(a)
	sb, errb := cast.ToStringE(b)
	if erra == nil && errb == nil {
		return sa == sb
	}

	return reflect.DeepEqual(a, b)
}

func resolveRef(ctx EvalCtx, ref string) (any, error) {
	path := strings.TrimPrefix(ref, "$.")

	if coord, ok := strings.CutPrefix(path, "bounds."); ok {
		switch coord {
		case "t1":
			return ctx.Bounds.T1, nil
		case "t2":
			return ctx.Bounds.T2, nil
		case "x1":
			return ctx.Bounds.X1, nil
		case "x2":
			return ctx.Bounds.X2, nil
		case "y1":
			return ctx.Bounds.Y1, nil
		case "y2":
			return ctx.Bounds.Y2, nil
		default:
			return nil, fmt.Errorf("unknown bounds coordinate %q", coord)
		}
	}

	var v any = ctx.Payload
	for _, seg := range strings.Split(path, ".") {
		doc, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("reference %q descends into a non-document value", ref)
		}
		v, ok = doc[seg]
		if !ok {
			return nil, errors.New("no payload field " + seg)
		}
	}
	return v, nil
}
