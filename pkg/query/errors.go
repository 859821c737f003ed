package query

import (
	"fmt"
)

type ErrUnmarshal = error

func NewUnmarshalError(kind string, err error) ErrUnmarshal {
	return fmt.Errorf("failed to parse %s document: %w", kind, err)
}

type ErrInvalidQuery = error

func NewInvalidQueryError(message string) ErrInvalidQuery {
	return fmt.Errorf("invalid query: %s", message)
}

type ErrExpression = error

func NewExpressionError(e *Expression, err error) ErrExpression {
	return fmt.Errorf("failed to evaluate %s expression %s: %w", e.Op, e.String(), err)
}

type ErrFilter = error

func NewFilterError(err error) ErrFilter {
	return fmt.Errorf("failed to evaluate filter stage: %w", err)
}

type ErrJoin = error

func NewJoinError(err error) ErrJoin {
	return fmt.Errorf("failed to evaluate join stage: %w", err)
}
