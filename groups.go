package validator

// applyValidity writes the isValid/isInvalid pair for a field and re-derives
// the group and global aggregates. Must be called with v.mu held. Returns the
// field's group name for event metadata.
func (v *Validator) applyValidity(path string, valid bool) string {
	v.model.Set(statePath(path, "isValid"), valid)
	v.model.Set(statePath(path, "isInvalid"), !valid)

	group := v.fields[path].group()
	if !valid {
		// One invalid field poisons its group and the global flag immediately.
		v.writeGroupValidity(group, false)
		v.writeInvalidFields(true)
		return group
	}

	members := true
	for _, member := range v.groups[group] {
		if member == path {
			continue
		}
		if v.isInvalid(member) {
			members = false
			break
		}
	}
	v.writeGroupValidity(group, members)

	anyInvalid := false
	for fieldPath := range v.fields {
		if v.isInvalid(fieldPath) {
			anyInvalid = true
			break
		}
	}
	v.writeInvalidFields(anyInvalid)
	return group
}

// writeGroupValidity skips the store write when the recorded validity is
// unchanged, so observers see no redundant change notifications.
func (v *Validator) writeGroupValidity(group string, valid bool) {
	path := "groups." + group + ".isValid"
	if current, ok := v.model.Get(path); ok {
		if recorded, isBool := current.(bool); isBool && recorded == valid {
			return
		}
	}
	v.model.Set(path, valid)
}

func (v *Validator) writeInvalidFields(invalid bool) {
	if current, ok := v.model.Get("hasInvalidFields"); ok {
		if recorded, isBool := current.(bool); isBool && recorded == invalid {
			return
		}
	}
	v.model.Set("hasInvalidFields", invalid)
}

func (v *Validator) isInvalid(path string) bool {
	raw, _ := v.model.Get(statePath(path, "isInvalid"))
	invalid, _ := raw.(bool)
	return invalid
}

// Groups reports the current validity flag per group name.
func (v *Validator) Groups() map[string]bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]bool, len(v.groups))
	for group := range v.groups {
		raw, _ := v.model.Get("groups." + group + ".isValid")
		valid, _ := raw.(bool)
		out[group] = valid
	}
	return out
}
