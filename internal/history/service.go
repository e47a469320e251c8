package history

import "log/slog"

// RecorderAPI is the append-only write side of the audit trail. The
// instrument engine alone decides whether a change is legal before
// recording it; the recorder never validates or reads back.
type RecorderAPI interface {
	RecordStatusChange(change Change) error
	RecordResubmission(change Change) error
}

// ReaderAPI is the query side used for audit views.
type ReaderAPI interface {
	ListByInstrument(instrumentID int64) ([]*Entry, error)
	FindResubmissionOrigin(instrumentID int64) (*Entry, error)
}

// Service exposes audit-trail reads, including full lineage
// reconstruction across resubmission forks.
type Service struct {
	reader ReaderAPI
	logger *slog.Logger
}

func NewService(reader ReaderAPI, logger *slog.Logger) *Service {
	return &Service{
		reader: reader,
		logger: logger,
	}
}

// GetHistory returns the entries recorded against one instrument id,
// oldest first.
func (s *Service) GetHistory(instrumentID int64) ([]*Entry, error) {
	entries, err := s.reader.ListByInstrument(instrumentID)
	if err != nil {
		s.logger.Error("failed to load status history", "error", err, "instrument_id", instrumentID)
		return nil, err
	}
	return entries, nil
}

// GetLineageHistory returns the combined history of an instrument and all
// its rejected predecessors by walking resubmission pointers backwards,
// ordered oldest lineage first.
func (s *Service) GetLineageHistory(instrumentID int64) ([]*Entry, error) {
	// Collect the chain of instrument ids, newest to oldest.
	chain := []int64{instrumentID}
	seen := map[int64]bool{instrumentID: true}

	current := instrumentID
	for {
		origin, err := s.reader.FindResubmissionOrigin(current)
		if err != nil {
			s.logger.Error("failed to resolve resubmission origin", "error", err, "instrument_id", current)
			return nil, err
		}
		if origin == nil || origin.ResubmittedFromID == nil {
			break
		}
		predecessor := *origin.ResubmittedFromID
		if seen[predecessor] {
			break
		}
		chain = append(chain, predecessor)
		seen[predecessor] = true
		current = predecessor
	}

	var entries []*Entry
	for i := len(chain) - 1; i >= 0; i-- {
		part, err := s.reader.ListByInstrument(chain[i])
		if err != nil {
			s.logger.Error("failed to load lineage history", "error", err, "instrument_id", chain[i])
			return nil, err
		}
		entries = append(entries, part...)
	}
	return entries, nil
}
