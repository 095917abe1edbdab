package rigid

// Observers receive engine events synchronously during Engine.Update. Slices passed to
// them are reused by the engine and are only valid for the duration of the call.

type CollisionObserver interface {
	CollisionStart(pairs []*Pair)
	CollisionActive(pairs []*Pair)
	CollisionEnd(pairs []*Pair)
}

type SleepObserver interface {
	SleepStart(body *Body)
	SleepEnd(body *Body)
}

type UpdateObserver interface {
	BeforeUpdate(timestamp float64)
	AfterUpdate(timestamp float64)
}

type CompositeObserver interface {
	BeforeAdd(composite *Composite, objs []Object)
	AfterAdd(composite *Composite, objs []Object)
	BeforeRemove(composite *Composite, objs []Object)
	AfterRemove(composite *Composite, objs []Object)
}

// CollisionHandler adapts plain functions to CollisionObserver. Nil funcs are skipped.
type CollisionHandler struct {
	StartFunc  func(pairs []*Pair)
	ActiveFunc func(pairs []*Pair)
	EndFunc    func(pairs []*Pair)
}

func (h *CollisionHandler) CollisionStart(pairs []*Pair) {
	if h.StartFunc != nil {
		h.StartFunc(pairs)
	}
}

func (h *CollisionHandler) CollisionActive(pairs []*Pair) {
	if h.ActiveFunc != nil {
		h.ActiveFunc(pairs)
	}
}

func (h *CollisionHandler) CollisionEnd(pairs []*Pair) {
	if h.EndFunc != nil {
		h.EndFunc(pairs)
	}
}

type SleepHandler struct {
	StartFunc func(body *Body)
	EndFunc   func(body *Body)
}

func (h *SleepHandler) SleepStart(body *Body) {
	if h.StartFunc != nil {
		h.StartFunc(body)
	}
}

func (h *SleepHandler) SleepEnd(body *Body) {
	if h.EndFunc != nil {
		h.EndFunc(body)
	}
}

type UpdateHandler struct {
	BeforeFunc func(timestamp float64)
	AfterFunc  func(timestamp float64)
}

func (h *UpdateHandler) BeforeUpdate(timestamp float64) {
	if h.BeforeFunc != nil {
		h.BeforeFunc(timestamp)
	}
}

func (h *UpdateHandler) AfterUpdate(timestamp float64) {
	if h.AfterFunc != nil {
		h.AfterFunc(timestamp)
	}
}

type CompositeHandler struct {
	BeforeAddFunc    func(composite *Composite, objs []Object)
	AfterAddFunc     func(composite *Composite, objs []Object)
	BeforeRemoveFunc func(composite *Composite, objs []Object)
	AfterRemoveFunc  func(composite *Composite, objs []Object)
}

func (h *CompositeHandler) BeforeAdd(composite *Composite, objs []Object) {
	if h.BeforeAddFunc != nil {
		h.BeforeAddFunc(composite, objs)
	}
}

func (h *CompositeHandler) AfterAdd(composite *Composite, objs []Object) {
	if h.AfterAddFunc != nil {
		h.AfterAddFunc(composite, objs)
	}
}

func (h *CompositeHandler) BeforeRemove(composite *Composite, objs []Object) {
	if h.BeforeRemoveFunc != nil {
		h.BeforeRemoveFunc(composite, objs)
	}
}

func (h *CompositeHandler) AfterRemove(composite *Composite, objs []Object) {
	if h.AfterRemoveFunc != nil {
		h.AfterRemoveFunc(composite, objs)
	}
}
