package route_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	log "github.com/sirupsen/logrus"

	"routing/executor"
	"routing/graph"
	"routing/ingest"
	"routing/planner"
)

// Handlers bundles the routing core behind the HTTP surface.
type Handlers struct {
	store *graph.Store
	exec  *executor.Executor
}

// NewHandlers wires the handlers to the store and executor.
func NewHandlers(store *graph.Store, exec *executor.Executor) *Handlers {
	return &Handlers{store: store, exec: exec}
}

// statusFromErr maps the error taxonomy onto HTTP statuses.
func statusFromErr(err error) int {
	var ve *planner.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrNoPathFound):
		return http.StatusNotFound
	case errors.Is(err, executor.ErrCapacityExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, executor.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, executor.ErrRequestTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RequestPath handles POST /api/request_path.
func (h *Handlers) RequestPath(c *gin.Context) {
	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.exec.RunSync(req.toPlanner())
	if err != nil {
		log.Warnf("sync plan %s -> %s failed: %v", req.StartNode, req.EndNode, err)
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pathResponse(result))
}

// RequestPathAsync handles POST /api/request_path_async.
func (h *Handlers) RequestPathAsync(c *gin.Context) {
	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	view, err := h.exec.Submit(req.toPlanner())
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, TaskSubmitResponse{
		TaskID:  view.ID,
		Status:  view.Status,
		Message: "planning task accepted",
	})
}

// TaskStatus handles GET /api/task/:task_id.
func (h *Handlers) TaskStatus(c *gin.Context) {
	view, err := h.exec.Get(c.Param("task_id"))
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	resp := TaskStatusResponse{
		TaskID:      view.ID,
		Status:      view.Status,
		Error:       view.ErrDetail,
		CreatedAt:   view.CreatedAt,
		CompletedAt: view.CompletedAt,
	}
	if view.Result != nil {
		r := pathResponse(view.Result)
		resp.Result = &r
	}
	c.JSON(http.StatusOK, resp)
}

// TrafficUpdate handles POST /api/traffic_update.
func (h *Handlers) TrafficUpdate(c *gin.Context) {
	var report ingest.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report body: " + err.Error()})
		return
	}
	if report.IntersectionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "intersection_id is required"})
		return
	}

	outcome := ingest.Apply(h.store, report)
	c.JSON(http.StatusOK, outcome)
}

// Nodes handles GET /api/nodes.
func (h *Handlers) Nodes(c *gin.Context) {
	nodes := h.store.Nodes()
	c.JSON(http.StatusOK, NodesResponse{Nodes: nodes, Count: len(nodes)})
}

// Roads handles GET /api/roads.
func (h *Handlers) Roads(c *gin.Context) {
	c.JSON(http.StatusOK, RoadsResponse{Roads: h.store.Roads()})
}

// Stats handles GET /api/stats.
func (h *Handlers) Stats(c *gin.Context) {
	resp := StatsResponse{
		ThreadPool: h.exec.Stats(),
		Network:    h.store.Summarize(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		resp.Host.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.Host.MemoryPercent = vm.UsedPercent
		resp.Host.MemoryUsedMB = vm.Used / 1024 / 1024
	}

	c.JSON(http.StatusOK, resp)
}
