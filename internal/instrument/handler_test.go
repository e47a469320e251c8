package instrument_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tenderops/tender-management/internal"
	"github.com/tenderops/tender-management/internal/auth"
	"github.com/tenderops/tender-management/internal/catalog"
	"github.com/tenderops/tender-management/internal/instrument"
)

type stubService struct {
	created       *instrument.CreateInstrumentDTO
	transitioned  *instrument.TransitionStatusDTO
	lastChangeCtx map[string]any
	result        *instrument.Instrument
	actions       *instrument.AvailableActions
	err           error
}

func (s *stubService) CreateInstrument(dto instrument.CreateInstrumentDTO) (*instrument.Instrument, error) {
	s.created = &dto
	return s.result, s.err
}

func (s *stubService) GetInstrument(instrumentID int64) (*instrument.Instrument, error) {
	return s.result, s.err
}

func (s *stubService) GetInstrumentsForRequest(requestID int64, activeOnly bool) ([]*instrument.Instrument, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*instrument.Instrument{s.result}, nil
}

func (s *stubService) TransitionStatus(instrumentID int64, dto instrument.TransitionStatusDTO, changeCtx map[string]any) (*instrument.Instrument, error) {
	s.transitioned = &dto
	s.lastChangeCtx = changeCtx
	return s.result, s.err
}

func (s *stubService) RejectInstrument(instrumentID int64, dto instrument.RejectInstrumentDTO, changeCtx map[string]any) (*instrument.Instrument, error) {
	s.lastChangeCtx = changeCtx
	return s.result, s.err
}

func (s *stubService) ResubmitInstrument(rejectedInstrumentID int64, dto instrument.ResubmitInstrumentDTO, changeCtx map[string]any) (*instrument.Instrument, error) {
	s.lastChangeCtx = changeCtx
	return s.result, s.err
}

func (s *stubService) GetAvailableActions(instrumentID int64) *instrument.AvailableActions {
	return s.actions
}

var _ = Describe("Instrument Handler", func() {
	var (
		service *stubService
		handler *instrument.Handler
		router  *chi.Mux
		user    *auth.User
	)

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(auth.ContextWithUser(req.Context(), user))
	}

	BeforeEach(func() {
		user = &auth.User{ID: 7, Email: "clerk@tenderops.local", Permissions: []string{"manage_instruments"}}
		service = &stubService{
			result: &instrument.Instrument{
				ID:             42,
				RequestID:      3,
				InstrumentType: string(catalog.TypeDD),
				Status:         catalog.StatusPending,
				IsActive:       true,
			},
		}
		handler = instrument.NewHandler(service)
		router = chi.NewRouter()
		router.Post("/instruments", handler.CreateInstrument)
		router.Get("/instruments/{id}", handler.GetInstrument)
		router.Get("/instruments/{id}/actions", handler.GetAvailableActions)
		router.Patch("/instruments/{id}/status", handler.TransitionStatus)
	})

	Describe("CreateInstrument", func() {
		It("should create an instrument for an authenticated user", func() {
			body := `{"request_id":3,"instrument_type":"DD","amount":500000,"favouring":"Executive Engineer"}`
			req := authed(httptest.NewRequest(http.MethodPost, "/instruments", strings.NewReader(body)))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(service.created).NotTo(BeNil())
			Expect(service.created.RequestID).To(Equal(int64(3)))
			Expect(service.created.InstrumentType).To(Equal("DD"))

			var got instrument.Instrument
			Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
			Expect(got.ID).To(Equal(int64(42)))
			Expect(got.Status).To(Equal(catalog.StatusPending))
		})

		It("should reject requests without an authenticated user", func() {
			body := `{"request_id":3,"instrument_type":"DD","amount":500000}`
			req := httptest.NewRequest(http.MethodPost, "/instruments", strings.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(service.created).To(BeNil())
		})

		It("should reject a malformed body", func() {
			req := authed(httptest.NewRequest(http.MethodPost, "/instruments", strings.NewReader("{not json")))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("TransitionStatus", func() {
		It("should pass the acting user through the change context", func() {
			body := `{"new_status":"ACCOUNTS_FORM_SUBMITTED","form_data":{"bank_name":"SBI"}}`
			req := authed(httptest.NewRequest(http.MethodPatch, "/instruments/42/status", strings.NewReader(body)))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.transitioned).NotTo(BeNil())
			Expect(service.transitioned.NewStatus).To(Equal(catalog.StatusAccountsFormSubmitted))
			Expect(service.lastChangeCtx).To(HaveKeyWithValue("actor", "clerk@tenderops.local"))
		})

		It("should map domain errors onto their HTTP status", func() {
			service.err = internal.NewInvalidStateError("instrument is in a terminal status")
			body := `{"new_status":"DD_CREATED"}`
			req := authed(httptest.NewRequest(http.MethodPatch, "/instruments/42/status", strings.NewReader(body)))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Error.Code).To(Equal(string(internal.ErrCodeInvalidState)))
		})

		It("should reject a non-numeric instrument id", func() {
			req := authed(httptest.NewRequest(http.MethodPatch, "/instruments/abc/status", strings.NewReader(`{"new_status":"DD_CREATED"}`)))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GetAvailableActions", func() {
		It("should return the service's action summary verbatim", func() {
			service.actions = &instrument.AvailableActions{
				InstrumentID:   42,
				InstrumentType: string(catalog.TypeDD),
				CurrentStatus:  catalog.StatusDDDelivered,
				NextStages: []catalog.Stage{
					{Number: 5, Name: "Realisation", Statuses: []string{catalog.StatusDDRealised}},
				},
			}
			req := httptest.NewRequest(http.MethodGet, "/instruments/42/actions", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var got instrument.AvailableActions
			Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
			Expect(got.NextStages).To(HaveLen(1))
			Expect(got.NextStages[0].Number).To(Equal(5))
		})
	})
})
