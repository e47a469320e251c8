package postgres_test

import (
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tenderops/tender-management/internal"
	"github.com/tenderops/tender-management/internal/catalog"
	"github.com/tenderops/tender-management/internal/history"
	"github.com/tenderops/tender-management/internal/instrument"
	instrumentPostgres "github.com/tenderops/tender-management/internal/instrument/postgres"
)

func TestInstrumentPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Instrument Postgres Suite")
}

// SQLite-compatible models for testing

type SQLitePaymentInstrument struct {
	ID              int64      `gorm:"primaryKey"`
	RequestID       int64      `gorm:"column:request_id;not null"`
	InstrumentType  string     `gorm:"column:instrument_type;not null"`
	Status          string     `gorm:"column:status;not null"`
	Action          int        `gorm:"column:action;default:0"`
	Amount          int64      `gorm:"column:amount;not null"`
	Favouring       string     `gorm:"column:favouring"`
	PayableAt       string     `gorm:"column:payable_at"`
	CourierAddress  string     `gorm:"column:courier_address"`
	CourierDeadline *time.Time `gorm:"column:courier_deadline"`
	IsActive        bool       `gorm:"column:is_active;default:true"`
	Version         int64      `gorm:"column:version;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (SQLitePaymentInstrument) TableName() string {
	return "payment_instruments"
}

type SQLiteStatusHistory struct {
	ID                int64     `gorm:"primaryKey"`
	InstrumentID      int64     `gorm:"column:instrument_id;not null;index"`
	InstrumentType    string    `gorm:"column:instrument_type;not null"`
	PreviousStatus    string    `gorm:"column:previous_status"`
	NewStatus         string    `gorm:"column:new_status;not null"`
	ChangedBy         string    `gorm:"column:changed_by"`
	Context           []byte    `gorm:"column:context"`
	RejectionReason   *string   `gorm:"column:rejection_reason"`
	FormData          []byte    `gorm:"column:form_data"`
	ResubmittedFromID *int64    `gorm:"column:resubmitted_from_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (SQLiteStatusHistory) TableName() string {
	return "instrument_status_history"
}

type SQLiteDDDetail struct {
	ID           int64     `gorm:"primaryKey"`
	InstrumentID int64     `gorm:"column:instrument_id;not null;uniqueIndex"`
	DDNumber     *string   `gorm:"column:dd_number"`
	BankName     *string   `gorm:"column:bank_name"`
	BranchName   *string   `gorm:"column:branch_name"`
	IssueDate    *string   `gorm:"column:issue_date"`
	DocketNumber *string   `gorm:"column:docket_number"`
	CourierName  *string   `gorm:"column:courier_name"`
	Remarks      *string   `gorm:"column:remarks"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteDDDetail) TableName() string {
	return "dd_details"
}

var _ = Describe("Instrument PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo instrument.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLitePaymentInstrument{}, &SQLiteStatusHistory{}, &SQLiteDDDetail{})
		Expect(err).NotTo(HaveOccurred())

		repo = instrumentPostgres.NewInstrumentRepository(db)
	})

	newDD := func() *instrument.Instrument {
		return &instrument.Instrument{
			RequestID:      1,
			InstrumentType: string(catalog.TypeDD),
			Status:         catalog.StatusPending,
			Amount:         250000,
			Favouring:      "Executive Engineer, PWD",
			IsActive:       true,
		}
	}

	Describe("Create and GetByID", func() {
		It("should persist an instrument and read it back", func() {
			inst := newDD()

			err := repo.Create(inst)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.ID).To(BeNumerically(">", 0))

			found, err := repo.GetByID(inst.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(catalog.StatusPending))
			Expect(found.Amount).To(Equal(int64(250000)))
			Expect(found.IsActive).To(BeTrue())
		})

		It("should return not found for a missing id", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(MatchError(internal.ErrInstrumentNotFound))
		})
	})

	Describe("UpdateStatus", func() {
		It("should update status, action and version together", func() {
			inst := newDD()
			Expect(repo.Create(inst)).To(Succeed())

			err := repo.UpdateStatus(inst.ID, catalog.StatusAccountsFormSubmitted, 1, inst.Version)
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.GetByID(inst.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(catalog.StatusAccountsFormSubmitted))
			Expect(found.Action).To(Equal(1))
			Expect(found.Version).To(Equal(inst.Version + 1))
		})

		It("should report a conflict for a stale version", func() {
			inst := newDD()
			Expect(repo.Create(inst)).To(Succeed())
			Expect(repo.UpdateStatus(inst.ID, catalog.StatusAccountsFormSubmitted, 1, inst.Version)).To(Succeed())

			err := repo.UpdateStatus(inst.ID, catalog.StatusDDCreated, 2, inst.Version)
			Expect(err).To(MatchError(internal.ErrConcurrentUpdate))
		})

		It("should report not found for a missing instrument", func() {
			err := repo.UpdateStatus(9999, catalog.StatusAccountsFormSubmitted, 1, 0)
			Expect(err).To(MatchError(internal.ErrInstrumentNotFound))
		})
	})

	Describe("Deactivate", func() {
		It("should clear the active flag without touching status", func() {
			inst := newDD()
			inst.Status = catalog.StatusAccountsFormRejected
			Expect(repo.Create(inst)).To(Succeed())

			Expect(repo.Deactivate(inst.ID, inst.Version)).To(Succeed())

			found, err := repo.GetByID(inst.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.IsActive).To(BeFalse())
			Expect(found.Status).To(Equal(catalog.StatusAccountsFormRejected))
		})

		It("should report a conflict for a stale version", func() {
			inst := newDD()
			Expect(repo.Create(inst)).To(Succeed())

			err := repo.Deactivate(inst.ID, inst.Version+5)
			Expect(err).To(MatchError(internal.ErrConcurrentUpdate))
		})
	})

	Describe("detail rows", func() {
		It("should create a detail row keeping only recognised columns", func() {
			inst := newDD()
			Expect(repo.Create(inst)).To(Succeed())

			err := repo.CreateDetail(catalog.TypeDD, inst.ID, map[string]any{
				"dd_number": "DD-7001",
				"bank_name": "State Bank",
				"malicious": "drop table",
			})
			Expect(err).NotTo(HaveOccurred())

			var detail SQLiteDDDetail
			Expect(db.Where("instrument_id = ?", inst.ID).First(&detail).Error).To(Succeed())
			Expect(detail.DDNumber).NotTo(BeNil())
			Expect(*detail.DDNumber).To(Equal("DD-7001"))
			Expect(*detail.BankName).To(Equal("State Bank"))
		})

		It("should create an empty detail row when no form data is given", func() {
			inst := newDD()
			Expect(repo.Create(inst)).To(Succeed())

			Expect(repo.CreateDetail(catalog.TypeDD, inst.ID, nil)).To(Succeed())

			var count int64
			Expect(db.Model(&SQLiteDDDetail{}).Where("instrument_id = ?", inst.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("should update only the submitted columns", func() {
			inst := newDD()
			Expect(repo.Create(inst)).To(Succeed())
			Expect(repo.CreateDetail(catalog.TypeDD, inst.ID, map[string]any{"dd_number": "DD-7001"})).To(Succeed())

			err := repo.UpdateDetail(catalog.TypeDD, inst.ID, map[string]any{
				"docket_number": "CR-555",
				"courier_name":  "BlueDart",
			})
			Expect(err).NotTo(HaveOccurred())

			var detail SQLiteDDDetail
			Expect(db.Where("instrument_id = ?", inst.ID).First(&detail).Error).To(Succeed())
			Expect(*detail.DDNumber).To(Equal("DD-7001"))
			Expect(*detail.DocketNumber).To(Equal("CR-555"))
			Expect(*detail.CourierName).To(Equal("BlueDart"))
		})

		It("should treat a form with no recognised columns as a no-op", func() {
			inst := newDD()
			Expect(repo.Create(inst)).To(Succeed())
			Expect(repo.CreateDetail(catalog.TypeDD, inst.ID, nil)).To(Succeed())

			Expect(repo.UpdateDetail(catalog.TypeDD, inst.ID, map[string]any{"bogus": "x"})).To(Succeed())
		})
	})

	Describe("WithTx", func() {
		It("should commit instrument and history writes together", func() {
			err := repo.WithTx(func(tx instrument.Repository, recorder history.RecorderAPI) error {
				inst := newDD()
				if err := tx.Create(inst); err != nil {
					return err
				}
				return recorder.RecordStatusChange(history.Change{
					InstrumentID:   inst.ID,
					InstrumentType: inst.InstrumentType,
					PreviousStatus: catalog.StatusPending,
					NewStatus:      catalog.StatusAccountsFormSubmitted,
					ChangedBy:      "clerk@tenderops.local",
				})
			})
			Expect(err).NotTo(HaveOccurred())

			var instruments, entries int64
			Expect(db.Model(&SQLitePaymentInstrument{}).Count(&instruments).Error).To(Succeed())
			Expect(db.Model(&SQLiteStatusHistory{}).Count(&entries).Error).To(Succeed())
			Expect(instruments).To(Equal(int64(1)))
			Expect(entries).To(Equal(int64(1)))
		})

		It("should roll everything back when the callback fails", func() {
			err := repo.WithTx(func(tx instrument.Repository, recorder history.RecorderAPI) error {
				inst := newDD()
				if err := tx.Create(inst); err != nil {
					return err
				}
				if err := recorder.RecordStatusChange(history.Change{
					InstrumentID:   inst.ID,
					InstrumentType: inst.InstrumentType,
					NewStatus:      catalog.StatusAccountsFormSubmitted,
				}); err != nil {
					return err
				}
				return fmt.Errorf("boom")
			})
			Expect(err).To(HaveOccurred())

			var instruments, entries int64
			Expect(db.Model(&SQLitePaymentInstrument{}).Count(&instruments).Error).To(Succeed())
			Expect(db.Model(&SQLiteStatusHistory{}).Count(&entries).Error).To(Succeed())
			Expect(instruments).To(BeZero())
			Expect(entries).To(BeZero())
		})
	})

	Describe("GetActiveByRequestID", func() {
		It("should exclude superseded instruments", func() {
			first := newDD()
			Expect(repo.Create(first)).To(Succeed())
			Expect(repo.Deactivate(first.ID, first.Version)).To(Succeed())

			second := newDD()
			Expect(repo.Create(second)).To(Succeed())

			all, err := repo.GetByRequestID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			active, err := repo.GetActiveByRequestID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(HaveLen(1))
			Expect(active[0].ID).To(Equal(second.ID))
		})
	})
})
