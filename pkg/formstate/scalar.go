package formstate

// UpdateByEvent marks the event's field touched and hands the event to the
// store's own change handler. Both writes are issued back-to-back; their
// completions are independent.
func (s *Synchronizer) UpdateByEvent(ev ChangeEvent) {
	s.watch("setFieldTouched", ev.Name, s.store.SetFieldTouched(ev.Name))
	s.watch("handleChange", ev.Name, s.store.HandleChange(ev))
}

// UpdateByNameValue marks name touched and writes value to it.
func (s *Synchronizer) UpdateByNameValue(name string, value any) {
	s.watch("setFieldTouched", name, s.store.SetFieldTouched(name))
	s.watch("setFieldValue", name, s.store.SetFieldValue(name, value))
}
