package rigid

// Transform is a 2x3 affine matrix:
//
//	| a c tx |
//	| b d ty |
type Transform struct {
	a, b, c, d, tx, ty float64
}

func NewTransformIdentity() Transform {
	return Transform{1, 0, 0, 1, 0, 0}
}

// NewTransformTranspose builds a transform from its rows.
func NewTransformTranspose(a, c, tx, b, d, ty float64) Transform {
	return Transform{a, b, c, d, tx, ty}
}

func NewTransformTranslate(translate Vector) Transform {
	return NewTransformTranspose(
		1, 0, translate.X,
		0, 1, translate.Y,
	)
}

func NewTransformScale(scaleX, scaleY float64) Transform {
	return NewTransformTranspose(
		scaleX, 0, 0,
		0, scaleY, 0,
	)
}

func NewTransformRotate(radians float64) Transform {
	rot := ForAngle(radians)
	return NewTransformTranspose(
		rot.X, -rot.Y, 0,
		rot.Y, rot.X, 0,
	)
}

// NewTransformRotateAbout rotates about a fixed point.
func NewTransformRotateAbout(radians float64, point Vector) Transform {
	return NewTransformTranslate(point).Mult(NewTransformRotate(radians)).Mult(NewTransformTranslate(point.Neg()))
}

// NewTransformScaleAbout scales about a fixed point.
func NewTransformScaleAbout(scaleX, scaleY float64, point Vector) Transform {
	return NewTransformTranslate(point).Mult(NewTransformScale(scaleX, scaleY)).Mult(NewTransformTranslate(point.Neg()))
}

// NewTransformFit maps from onto to, stretching each axis independently. An empty from
// only translates its corner onto the corner of to.
func NewTransformFit(from, to Bounds) Transform {
	w, h := from.Width(), from.Height()
	if w <= 0 || h <= 0 {
		return NewTransformTranslate(to.Min.Sub(from.Min))
	}
	sx, sy := to.Width()/w, to.Height()/h
	return NewTransformTranspose(
		sx, 0, to.Min.X-from.Min.X*sx,
		0, sy, to.Min.Y-from.Min.Y*sy,
	)
}

func (t Transform) Inverse() Transform {
	invDet := 1.0 / (t.a*t.d - t.c*t.b)
	return NewTransformTranspose(
		t.d*invDet, -t.c*invDet, (t.c*t.ty-t.tx*t.d)*invDet,
		-t.b*invDet, t.a*invDet, (t.tx*t.b-t.a*t.ty)*invDet,
	)
}

func (t Transform) Mult(t2 Transform) Transform {
	return NewTransformTranspose(
		t.a*t2.a+t.c*t2.b, t.a*t2.c+t.c*t2.d, t.a*t2.tx+t.c*t2.ty+t.tx,
		t.b*t2.a+t.d*t2.b, t.b*t2.c+t.d*t2.d, t.b*t2.tx+t.d*t2.ty+t.ty,
	)
}

func (t Transform) Point(p Vector) Vector {
	return Vector{X: t.a*p.X + t.c*p.Y + t.tx, Y: t.b*p.X + t.d*p.Y + t.ty}
}

// Vect transforms a direction, ignoring the translation.
func (t Transform) Vect(v Vector) Vector {
	return Vector{t.a*v.X + t.c*v.Y, t.b*v.X + t.d*v.Y}
}
