package workflow_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tenderops/tender-management/internal/workflow"
)

var _ = Describe("Workflow Handler", func() {
	var (
		handler *workflow.Handler
		router  *chi.Mux
	)

	BeforeEach(func() {
		handler = workflow.NewHandler()
		router = chi.NewRouter()
		router.Get("/workflows", handler.ListWorkflows)
		router.Get("/workflows/{name}/steps", handler.GetWorkflowSteps)
		router.Get("/workflows/{name}/timers", handler.GetWorkflowTimers)
	})

	It("should list the registered workflow names", func() {
		req := httptest.NewRequest(http.MethodGet, "/workflows", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response map[string][]string
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response["workflows"]).To(ContainElements(
			workflow.Tendering, workflow.Courier, workflow.EMD, workflow.Operations))
	})

	It("should return the steps of a known workflow", func() {
		req := httptest.NewRequest(http.MethodGet, "/workflows/"+workflow.Courier+"/steps", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var steps []workflow.Step
		Expect(json.NewDecoder(w.Body).Decode(&steps)).To(Succeed())
		Expect(steps).To(HaveLen(4))
		Expect(steps[0].Name).To(Equal("Docket Created"))
	})

	It("should return 404 for an unknown workflow", func() {
		req := httptest.NewRequest(http.MethodGet, "/workflows/unknown/steps", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should anchor timers at the requested start date", func() {
		req := httptest.NewRequest(http.MethodGet, "/workflows/"+workflow.Courier+"/timers?start=2026-08-01", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var timers []workflow.StepTimer
		Expect(json.NewDecoder(w.Body).Decode(&timers)).To(Succeed())
		Expect(timers).To(HaveLen(4))

		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		Expect(timers[0].StartsAt.Equal(start)).To(BeTrue())
		Expect(timers[0].DueAt.Equal(start.AddDate(0, 0, 1))).To(BeTrue())
	})

	It("should reject a malformed start date", func() {
		req := httptest.NewRequest(http.MethodGet, "/workflows/"+workflow.Courier+"/timers?start=01-08-2026", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
