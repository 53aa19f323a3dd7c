package minecode

// applyBinary evaluates op over two already evaluated operands. Coercions are
// permissive: + prefers text, then float, then integer, and the
// ordering operators compare every operand as a float, text and booleans
// included.
func applyBinary(op BinaryOp, l, r Value) (Value, error) {
	switch op {
	case BinaryAddition:
		switch {
		case l.Kind == KindText || r.Kind == KindText:
			return Text(l.String() + r.String()), nil
		case l.Kind == KindFloat || r.Kind == KindFloat:
			return Float(l.AsFloat() + r.AsFloat()), nil
		default:
			return Integer(l.AsInt() + r.AsInt()), nil
		}
	case BinarySubtraction:
		if isFloat(l, r) {
			return Float(l.AsFloat() - r.AsFloat()), nil
		}

		return Integer(l.AsInt() - r.AsInt()), nil
	case BinaryMultiplication:
		if isFloat(l, r) {
			return Float(l.AsFloat() * r.AsFloat()), nil
		}

		return Integer(l.AsInt() * r.AsInt()), nil
	case BinaryDivision:
		divisor := r.AsFloat()
		if divisor == 0 {
			return Void(), ErrDivisionByZero
		}

		return Float(l.AsFloat() / divisor), nil
	case BinaryEqual:
		return Boolean(l.Equals(r)), nil
	case BinaryNotEqual:
		return Boolean(!l.Equals(r)), nil
	case BinaryLess:
		return Boolean(l.AsFloat() < r.AsFloat()), nil
	case BinaryGreater:
		return Boolean(l.AsFloat() > r.AsFloat()), nil
	case BinaryLessEqual:
		return Boolean(l.AsFloat() <= r.AsFloat()), nil
	case BinaryGreaterEqual:
		return Boolean(l.AsFloat() >= r.AsFloat()), nil
	case BinaryAnd:
		return Boolean(l.Truthy() && r.Truthy()), nil
	case BinaryOr:
		return Boolean(l.Truthy() || r.Truthy()), nil
	}

	return Void(), ErrUnsupportedOperator
}

func isFloat(l, r Value) bool {
	return l.Kind == KindFloat || r.Kind == KindFloat
}
