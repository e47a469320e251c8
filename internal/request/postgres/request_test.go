package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tenderops/tender-management/internal"
	"github.com/tenderops/tender-management/internal/request"
	requestPostgres "github.com/tenderops/tender-management/internal/request/postgres"
)

func TestRequestPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Postgres Suite")
}

type SQLitePaymentRequest struct {
	ID              int64      `gorm:"primaryKey"`
	ReferenceNumber string     `gorm:"column:reference_number;not null;uniqueIndex"`
	TenderReference string     `gorm:"column:tender_reference;not null"`
	Purpose         string     `gorm:"column:purpose;not null"`
	Amount          int64      `gorm:"column:amount;not null"`
	RequestedBy     string     `gorm:"column:requested_by"`
	NeededBy        *time.Time `gorm:"column:needed_by"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (SQLitePaymentRequest) TableName() string {
	return "payment_requests"
}

var _ = Describe("Request PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo request.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLitePaymentRequest{})
		Expect(err).NotTo(HaveOccurred())

		repo = requestPostgres.NewRequestRepository(db)
	})

	newRequest := func(ref string) *request.Request {
		return &request.Request{
			ReferenceNumber: ref,
			TenderReference: "NIT-2026-117",
			Purpose:         "EMD",
			Amount:          150000,
			RequestedBy:     "clerk@tenderops.local",
		}
	}

	Describe("Create", func() {
		It("should persist a request and assign an id", func() {
			req := newRequest("PR-20260831-aa11bb22")

			err := repo.Create(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate reference number", func() {
			Expect(repo.Create(newRequest("PR-20260831-aa11bb22"))).To(Succeed())
			Expect(repo.Create(newRequest("PR-20260831-aa11bb22"))).NotTo(Succeed())
		})
	})

	Describe("lookups", func() {
		It("should find a request by id and by reference number", func() {
			req := newRequest("PR-20260831-cc33dd44")
			Expect(repo.Create(req)).To(Succeed())

			byID, err := repo.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.TenderReference).To(Equal("NIT-2026-117"))

			byRef, err := repo.GetByReferenceNumber("PR-20260831-cc33dd44")
			Expect(err).NotTo(HaveOccurred())
			Expect(byRef.ID).To(Equal(req.ID))
		})

		It("should return not found for missing requests", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(MatchError(internal.ErrRequestNotFound))

			_, err = repo.GetByReferenceNumber("PR-none")
			Expect(err).To(MatchError(internal.ErrRequestNotFound))
		})
	})

	Describe("List", func() {
		It("should page through requests", func() {
			Expect(repo.Create(newRequest("PR-1"))).To(Succeed())
			Expect(repo.Create(newRequest("PR-2"))).To(Succeed())
			Expect(repo.Create(newRequest("PR-3"))).To(Succeed())

			page, err := repo.List(2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))

			rest, err := repo.List(2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(HaveLen(1))
		})
	})
})
