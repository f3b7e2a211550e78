package browser

import "github.com/abelbrown/storybrowser/internal/paginate"

// Reduce applies ev to s and returns the new state plus the effect to run,
// or nil when there is nothing to do. It is pure: no I/O, no clocks.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Start:
		if s.Phase != PhaseUninitialized {
			return s, nil
		}
		s.Phase = PhaseLoading
		s.Loading = true
		return s, FetchIdentifiers{}

	case IdentifiersLoaded:
		if s.Phase != PhaseLoading {
			return s, nil
		}
		size := s.PageSize
		if size <= 0 {
			size = paginate.PageSize
		}
		s.PageSize = size
		s.Pages = paginate.Paginate(ev.IDs, size)
		s.Phase = PhaseReady
		s.LastErr = nil
		if s.PageCount() == 0 {
			s.Page = 0
			s.Loading = false
			return s, nil
		}
		return requestPage(s, s.clamp(s.Page))

	case IdentifiersFailed:
		if s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhaseFailed
		s.Loading = false
		s.LastErr = ev.Err
		return s, nil

	case Previous:
		return navigate(s, s.Page-1)

	case Next:
		return navigate(s, s.Page+1)

	case Jump:
		return navigate(s, ev.Index)

	case PageLoaded:
		if s.Phase != PhaseReady || !s.IsCurrent(ev.Gen) {
			return s, nil
		}
		s.Items = ev.Items
		s.ItemsPage = ev.Index
		s.Loading = false
		s.LastErr = nil
		return s, nil

	case PageFailed:
		if s.Phase != PhaseReady || !s.IsCurrent(ev.Gen) {
			return s, nil
		}
		// Previous items stay visible.
		s.Loading = false
		s.LastErr = ev.Err
		return s, nil

	case DismissError:
		s.LastErr = nil
		return s, nil
	}

	return s, nil
}

// navigate selects target (clamped). Selecting the current page is a no-op,
// so Previous on the first page and Next on the last issue no request.
func navigate(s State, target int) (State, Effect) {
	if s.Phase != PhaseReady || s.PageCount() == 0 {
		return s, nil
	}
	target = s.clamp(target)
	if target == s.Page {
		return s, nil
	}
	return requestPage(s, target)
}

func requestPage(s State, index int) (State, Effect) {
	s.Page = index
	s.Generation++
	s.Loading = true
	return s, LoadPage{Gen: s.Generation, Index: index, IDs: s.CurrentIDs()}
}
