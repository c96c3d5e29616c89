package validator

import "github.com/goliatone/go-validator/pkg/activity"

// setup initializes every FieldState from spec defaults, projects the origin
// snapshot over them (origin wins for overlapping paths), and resets the
// derived aggregates. Reset runs the same sequence wholesale.
func (v *Validator) setup() {
	originTree := v.originSnapshot()
	v.captureBaselines(originTree)

	v.mu.Lock()
	for _, path := range v.order {
		if len(v.compiled[path]) == 0 {
			continue
		}
		v.model.Set(statePath(path, "messages"), []string{})
		v.model.Set(statePath(path, "isValid"), false)
		v.model.Set(statePath(path, "isInvalid"), false)
		v.model.Del(statePath(path, "invalidAt"))
		v.model.Del(statePath(path, "isValidating"))
		// Superseding the serial turns any in-flight round stale.
		v.model.Increment(statePath(path, "serial"))
	}
	v.mu.Unlock()

	for _, path := range v.order {
		v.model.Set(statePath(path, "value"), cloneValue(v.fields[path].Default))
	}

	if originTree != nil {
		passthrough := projectTree(originTree, v.tree, "", func(path string, value any) (any, bool) {
			v.model.Set(statePath(path, "value"), cloneValue(value))
			return nil, false
		})
		v.writePassthrough(passthrough, "")
	}

	v.mu.Lock()
	for group := range v.groups {
		v.writeGroupValidity(group, false)
	}
	v.writeInvalidFields(false)
	v.mu.Unlock()

	v.changeMu.Lock()
	for _, path := range v.order {
		v.model.Set(statePath(path, "hasChanged"), false)
	}
	v.writeChangedFields(false)
	v.changeMu.Unlock()
}

// Reset re-runs setup against a fresh origin read, restoring every field to
// its baseline and clearing every divergence flag.
func (v *Validator) Reset() {
	v.setup()
	v.emit(activity.BuildResetEvent(activity.ValidationEventInput{
		Form:  v.model.Root(),
		Valid: true,
	}))
}

// GetValues reconstructs the nested value tree from current field state,
// merged with origin keys the field tree does not own. Internal bookkeeping
// never leaks into the projection.
func (v *Validator) GetValues(excludeIdentifier bool) map[string]any {
	raw, _ := v.model.Get("")
	source, _ := raw.(map[string]any)
	if source == nil {
		return map[string]any{}
	}

	v.mu.Lock()
	out := projectTree(source, v.tree, "", func(_ string, value any) (any, bool) {
		if fieldState, ok := value.(map[string]any); ok {
			return cloneValue(fieldState["value"]), true
		}
		return cloneValue(value), true
	})
	v.mu.Unlock()

	for key := range v.excluded {
		delete(out, key)
	}
	if excludeIdentifier {
		delete(out, v.cfg.identifierKey)
	}
	return out
}

// Commit projects current field values back onto the origin. Without force it
// is gated on a passing ValidateAll; failures and creation conflicts are
// delivered as *CommitError through cb, never thrown.
func (v *Validator) Commit(force bool, cb func(err error)) {
	if v.origin == nil {
		if cb != nil {
			cb(nil)
		}
		return
	}
	if force {
		v.commitValues(cb)
		return
	}
	v.ValidateAll(func(valid bool) {
		if !valid {
			if cb != nil {
				cb(&CommitError{Reason: "validation gate rejected commit", Err: ErrValidationFailed})
			}
			return
		}
		v.commitValues(cb)
	})
}

func (v *Validator) commitValues(cb func(err error)) {
	values := v.GetValues(false)

	if _, ok := v.origin.Get(v.cfg.identifierKey); ok {
		// Partial update: only projected keys are touched.
		for key, value := range values {
			v.origin.Set(key, value)
		}
		v.emitCommitted()
		if cb != nil {
			cb(nil)
		}
		return
	}

	entity := v.origin.At(v.reservedID)
	if existing, ok := entity.Get(""); ok {
		if tree, isMap := existing.(map[string]any); isMap && len(tree) > 0 {
			if cb != nil {
				cb(&CommitError{Reason: "create conflicts with existing entity " + v.reservedID, Err: ErrEntityExists})
			}
			return
		}
	}
	entity.Set(v.cfg.identifierKey, v.reservedID)
	for key, value := range values {
		entity.Set(key, value)
	}
	v.emitCommitted()
	if cb != nil {
		cb(nil)
	}
}

func (v *Validator) emitCommitted() {
	v.emit(activity.BuildCommittedEvent(activity.ValidationEventInput{
		Form:  v.model.Root(),
		Valid: true,
	}))
}

func (v *Validator) originSnapshot() map[string]any {
	if v.origin == nil {
		return nil
	}
	raw, ok := v.origin.Get("")
	if !ok {
		return nil
	}
	tree, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return tree
}

// writePassthrough copies unowned origin leaves into the model one path at a
// time so nested writes never clobber sibling field state.
func (v *Validator) writePassthrough(tree map[string]any, prefix string) {
	for key, value := range tree {
		if prefix == "" && v.excluded[key] {
			continue
		}
		path := joinPath(prefix, key)
		if nested, ok := value.(map[string]any); ok {
			v.writePassthrough(nested, path)
			continue
		}
		v.model.Set(path, cloneValue(value))
	}
}
