package formstate

// initialValuesChanged evaluates the captured eager options against the
// current initial snapshot and schedules the bulk touched write when due.
func (s *Synchronizer) initialValuesChanged() {
	opts := s.eager
	if opts == nil {
		return
	}

	if opts.Mode == ModeUpdate {
		if _, fetched := s.store.InitialValues()[opts.KeyToCheckFetched]; !fetched {
			s.logger.Debug().Str("key", opts.KeyToCheckFetched).Msg("eager validation waiting for fetched record")
			return
		}
	}

	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}

	s.pending.Add(1)
	s.afterFunc(delay, func() {
		defer s.pending.Done()
		s.watch("setTouched", "*", s.store.SetTouched(TouchAll(s.store.InitialValues())))
	})
}
