package history_test

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tenderops/tender-management/internal/catalog"
	"github.com/tenderops/tender-management/internal/history"
)

func TestHistory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "History Suite")
}

type mockReader struct {
	entries map[int64][]*history.Entry
	origins map[int64]*history.Entry
	failOn  int64
}

func newMockReader() *mockReader {
	return &mockReader{
		entries: make(map[int64][]*history.Entry),
		origins: make(map[int64]*history.Entry),
	}
}

func (m *mockReader) ListByInstrument(instrumentID int64) ([]*history.Entry, error) {
	if m.failOn == instrumentID {
		return nil, fmt.Errorf("query failed")
	}
	return m.entries[instrumentID], nil
}

func (m *mockReader) FindResubmissionOrigin(instrumentID int64) (*history.Entry, error) {
	return m.origins[instrumentID], nil
}

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

var _ = Describe("History Service", func() {
	var (
		reader  *mockReader
		service *history.Service
	)

	BeforeEach(func() {
		reader = newMockReader()
		service = history.NewService(reader, testLogger)
	})

	entry := func(instrumentID int64, newStatus string) *history.Entry {
		return &history.Entry{
			InstrumentID:   instrumentID,
			InstrumentType: string(catalog.TypeDD),
			NewStatus:      newStatus,
		}
	}

	Describe("GetHistory", func() {
		It("returns the entries for one instrument", func() {
			reader.entries[1] = []*history.Entry{
				entry(1, catalog.StatusAccountsFormSubmitted),
				entry(1, catalog.StatusAccountsFormRejected),
			}

			entries, err := service.GetHistory(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
		})

		It("propagates reader failures", func() {
			reader.failOn = 1
			_, err := service.GetHistory(1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetLineageHistory", func() {
		It("stitches predecessor history before the current instrument's", func() {
			from := int64(1)
			reader.entries[1] = []*history.Entry{
				entry(1, catalog.StatusAccountsFormSubmitted),
				entry(1, catalog.StatusAccountsFormRejected),
			}
			reader.entries[2] = []*history.Entry{
				entry(2, catalog.StatusAccountsFormSubmitted),
			}
			origin := entry(2, catalog.StatusPending)
			origin.ResubmittedFromID = &from
			reader.origins[2] = origin

			entries, err := service.GetLineageHistory(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].InstrumentID).To(Equal(int64(1)))
			Expect(entries[1].NewStatus).To(Equal(catalog.StatusAccountsFormRejected))
			Expect(entries[2].InstrumentID).To(Equal(int64(2)))
		})

		It("walks a chain of multiple resubmissions", func() {
			one, two := int64(1), int64(2)
			reader.entries[1] = []*history.Entry{entry(1, catalog.StatusAccountsFormRejected)}
			reader.entries[2] = []*history.Entry{entry(2, catalog.StatusAccountsFormRejected)}
			reader.entries[3] = []*history.Entry{entry(3, catalog.StatusAccountsFormSubmitted)}

			originTwo := entry(2, catalog.StatusPending)
			originTwo.ResubmittedFromID = &one
			reader.origins[2] = originTwo

			originThree := entry(3, catalog.StatusPending)
			originThree.ResubmittedFromID = &two
			reader.origins[3] = originThree

			entries, err := service.GetLineageHistory(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].InstrumentID).To(Equal(int64(1)))
			Expect(entries[2].InstrumentID).To(Equal(int64(3)))
		})

		It("returns just the instrument's own history for a fresh lineage", func() {
			reader.entries[5] = []*history.Entry{entry(5, catalog.StatusAccountsFormSubmitted)}

			entries, err := service.GetLineageHistory(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("stops on a cyclic resubmission pointer", func() {
			three := int64(3)
			reader.entries[3] = []*history.Entry{entry(3, catalog.StatusAccountsFormSubmitted)}
			origin := entry(3, catalog.StatusPending)
			origin.ResubmittedFromID = &three
			reader.origins[3] = origin

			entries, err := service.GetLineageHistory(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})
	})
})
