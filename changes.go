package validator

// trackChanges registers one value subscription per field. Handlers fire on
// the mutating goroutine after the store applied the write; they only touch
// bookkeeping paths, never field values, so dispatch cannot recurse.
func (v *Validator) trackChanges() {
	for _, path := range v.order {
		fieldPath := path
		unsub := v.model.OnChange(statePath(fieldPath, "value"), func(string, any) {
			v.onValueChange(fieldPath)
		})
		v.unsubs = append(v.unsubs, unsub)
	}
}

// onValueChange re-derives the field's divergence flag against its baseline
// and folds it into the global aggregate.
func (v *Validator) onValueChange(path string) {
	v.changeMu.Lock()
	baseline := v.baselines[path]
	current, _ := v.model.Get(statePath(path, "value"))
	changed := !equalValue(current, baseline)

	raw, _ := v.model.Get(statePath(path, "hasChanged"))
	if recorded, ok := raw.(bool); !ok || recorded != changed {
		v.model.Set(statePath(path, "hasChanged"), changed)
	}

	if changed {
		v.writeChangedFields(true)
		v.changeMu.Unlock()
		return
	}
	any := false
	for _, fieldPath := range v.order {
		flag, _ := v.model.Get(statePath(fieldPath, "hasChanged"))
		if hasChanged, ok := flag.(bool); ok && hasChanged {
			any = true
			break
		}
	}
	v.writeChangedFields(any)
	v.changeMu.Unlock()
}

func (v *Validator) writeChangedFields(changed bool) {
	if current, ok := v.model.Get("hasChangedFields"); ok {
		if recorded, isBool := current.(bool); isBool && recorded == changed {
			return
		}
	}
	v.model.Set("hasChangedFields", changed)
}

// captureBaselines fixes the comparison baseline for every field: the origin's
// current value when one exists at the path, the spec default otherwise.
// Called at setup and again on Reset with a fresh origin read.
func (v *Validator) captureBaselines(origin map[string]any) {
	v.changeMu.Lock()
	defer v.changeMu.Unlock()
	v.baselines = make(map[string]any, len(v.fields))
	for path, spec := range v.fields {
		if origin != nil {
			if value, ok := lookupPath(origin, path); ok {
				v.baselines[path] = cloneValue(value)
				continue
			}
		}
		v.baselines[path] = cloneValue(spec.Default)
	}
}

func lookupPath(tree map[string]any, path string) (any, bool) {
	node := any(tree)
	for _, segment := range splitPath(path) {
		nested, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = nested[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}
