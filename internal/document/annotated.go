package document

// Annotated holds the automatic prediction and any manual override for a
// single annotation axis of a paragraph.
//
// The effective value is always derivable from the current fields alone:
// the manual value when overridden, the automatic value otherwise. No
// event history is consulted. Classifier results received while an
// override is active still update the automatic side in the background,
// but reverting restores the auto pair as it stood when the override
// began, never a recomputation and never a mid-override result.
type Annotated[T comparable] struct {
	autoValue      T
	autoConfidence float64
	autoScored     bool // false until a classifier result lands
	manualValue    T
	manualOverride bool

	// Auto pair captured when the override began; Revert restores it.
	savedValue      T
	savedConfidence float64
	savedScored     bool
}

// NewAnnotated returns an Annotated seeded with the axis default, unscored.
func NewAnnotated[T comparable](def T) Annotated[T] {
	return Annotated[T]{autoValue: def}
}

// Effective returns the value downstream consumers observe.
func (a Annotated[T]) Effective() T {
	if a.manualOverride {
		return a.manualValue
	}
	return a.autoValue
}

// Auto returns the automatic value, its confidence, and whether a
// classifier has scored this axis. Confidence is meaningful only when
// scored is true and no override is active.
func (a Annotated[T]) Auto() (value T, confidence float64, scored bool) {
	return a.autoValue, a.autoConfidence, a.autoScored
}

// Overridden reports whether a manual override is active.
func (a Annotated[T]) Overridden() bool { return a.manualOverride }

// Manual returns the manual value; meaningful only when Overridden.
func (a Annotated[T]) Manual() T { return a.manualValue }

// SetAuto records a classifier result. If an override is active the
// effective value is unchanged.
func (a *Annotated[T]) SetAuto(value T, confidence float64) {
	a.autoValue = value
	a.autoConfidence = confidence
	a.autoScored = true
}

// Override sets the manual value. On the transition into the overridden
// state the current auto pair is captured; re-overriding keeps the
// original capture.
func (a *Annotated[T]) Override(value T) {
	if !a.manualOverride {
		a.savedValue = a.autoValue
		a.savedConfidence = a.autoConfidence
		a.savedScored = a.autoScored
	}
	a.manualValue = value
	a.manualOverride = true
}

// Revert clears the override, restoring the automatic value and
// confidence captured when the override began. Classifier results that
// landed during the override are discarded, not recomputed.
func (a *Annotated[T]) Revert() {
	var zero T
	if a.manualOverride {
		a.autoValue = a.savedValue
		a.autoConfidence = a.savedConfidence
		a.autoScored = a.savedScored
	}
	a.manualValue = zero
	a.manualOverride = false
	a.savedValue = zero
	a.savedConfidence = 0
	a.savedScored = false
}
