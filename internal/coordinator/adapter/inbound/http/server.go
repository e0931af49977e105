package http_handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	sdklogger "github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// maxTicksPerRequest bounds n on POST /ticks.
const maxTicksPerRequest = 1000

type Server struct {
	app     *fiber.App
	addr    string
	service port.CoordinatorService
}

func NewServer(addr string, service port.CoordinatorService) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{
		app:     app,
		addr:    addr,
		service: service,
	}

	// Routes
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app.Post("/documents", s.handleIngest)
	s.app.Get("/documents/:id/route", s.handleRoute)
	s.app.Get("/query", s.handleQuery)
	s.app.Get("/df", s.handleGlobalDF)

	s.app.Post("/ticks", s.handleRunTicks)
	s.app.Get("/ticks/status", s.handleTickStatus)

	s.app.Get("/cluster", s.handleClusterStats)
	s.app.Get("/shards", s.handleListShards)
	s.app.Put("/shards/:id/status", s.handleSetStatus)
	s.app.Delete("/shards/:id", s.handleUnregister)

	s.app.Get("/nodes/:id", s.handleGetNode)
	s.app.Get("/nodes/:id/neighbors", s.handleNeighbors)
	s.app.Post("/signals", s.handleSignals)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	return s.app.Listen(s.addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) sendJSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// sendDomainError picks the HTTP status for a service error.
func (s *Server) sendDomainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrShardNotFound), errors.Is(err, domain.ErrGhostNodeNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrRoutingFailed):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTickInProgress):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrPhaseTimeout):
		status = fiber.StatusGatewayTimeout
	case errors.Is(err, domain.ErrBarrierFailed), errors.Is(err, domain.ErrRPC):
		status = fiber.StatusBadGateway
	}
	return s.sendJSONError(c, status, err.Error())
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "tick": s.service.CurrentTick(c.UserContext())})
}

func (s *Server) handleIngest(c *fiber.Ctx) error {
	var doc domain.Document
	if err := c.BodyParser(&doc); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid document body")
	}
	if strings.TrimSpace(doc.Title) == "" && strings.TrimSpace(doc.Content) == "" {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Document needs a title or content")
	}

	id, owner, err := s.service.IngestDocument(c.UserContext(), doc)
	if err != nil {
		sdklogger.Errorw("Ingest failed", "document_id", doc.ID, "error", err.Error())
		return s.sendDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       id,
		"shard_id": owner,
	})
}

func (s *Server) handleRoute(c *fiber.Ctx) error {
	id := domain.DocumentID(c.Params("id"))
	info, err := s.service.RouteDocument(c.UserContext(), id)
	if err != nil {
		return s.sendDomainError(c, err)
	}
	replicas, err := s.service.ReplicaShards(c.UserContext(), id)
	if err != nil {
		return s.sendDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"document_id": id,
		"shard":       info,
		"replicas":    replicas,
	})
}

func (s *Server) handleQuery(c *fiber.Ctx) error {
	text := c.Query("q")
	if strings.TrimSpace(text) == "" {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing 'q' query parameter")
	}

	results, err := s.service.Query(c.UserContext(), text)
	if err != nil {
		sdklogger.Warnw("Query failed", "query", text, "error", err.Error())
		return s.sendDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"query":   text,
		"results": results,
	})
}

func (s *Server) handleGlobalDF(c *fiber.Ctx) error {
	raw := c.Query("terms")
	if raw == "" {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing 'terms' query parameter")
	}
	df, err := s.service.GlobalDF(c.UserContext(), strings.Split(raw, ","))
	if err != nil {
		return s.sendDomainError(c, err)
	}
	return c.JSON(df)
}

func (s *Server) handleRunTicks(c *fiber.Ctx) error {
	n := c.QueryInt("n", 1)
	if n < 1 || n > maxTicksPerRequest {
		return s.sendJSONError(c, fiber.StatusBadRequest, "'n' must be between 1 and "+strconv.Itoa(maxTicksPerRequest))
	}

	reports, err := s.service.RunTicks(c.UserContext(), n)
	if err != nil {
		sdklogger.Errorw("Tick run failed", "requested", n, "completed", len(reports), "error", err.Error())
		return s.sendDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"tick":    s.service.CurrentTick(c.UserContext()),
		"reports": reports,
	})
}

func (s *Server) handleTickStatus(c *fiber.Ctx) error {
	return c.JSON(s.service.TickStatus(c.UserContext()))
}

func (s *Server) handleClusterStats(c *fiber.Ctx) error {
	return c.JSON(s.service.ClusterStats(c.UserContext()))
}

func (s *Server) handleListShards(c *fiber.Ctx) error {
	return c.JSON(s.service.ListShards(c.UserContext()))
}

func (s *Server) handleSetStatus(c *fiber.Ctx) error {
	id, err := shard.ParseID(c.Params("id"))
	if err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid shard id")
	}
	var body struct {
		Status domain.ShardStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || !body.Status.Valid() {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Body must carry a valid 'status'")
	}

	if err := s.service.SetShardStatus(c.UserContext(), id, body.Status); err != nil {
		return s.sendDomainError(c, err)
	}
	sdklogger.Infow("Shard status set over HTTP", "shard_id", id, "status", body.Status)
	return c.JSON(fiber.Map{"shard_id": id, "status": body.Status})
}

func (s *Server) handleUnregister(c *fiber.Ctx) error {
	id, err := shard.ParseID(c.Params("id"))
	if err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid shard id")
	}
	if err := s.service.UnregisterShard(c.UserContext(), id); err != nil {
		return s.sendDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleGetNode(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid node id")
	}
	node, found, err := s.service.GetNode(c.UserContext(), id)
	if err != nil {
		return s.sendDomainError(c, err)
	}
	if !found {
		return s.sendJSONError(c, fiber.StatusNotFound, "Node not found")
	}
	return c.JSON(node)
}

func (s *Server) handleNeighbors(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid node id")
	}
	neighbors, err := s.service.GetNeighbors(c.UserContext(), id)
	if err != nil {
		return s.sendDomainError(c, err)
	}
	return c.JSON(fiber.Map{"node_id": id, "neighbors": neighbors})
}

func (s *Server) handleSignals(c *fiber.Ctx) error {
	var signals []domain.CrossShardSignal
	if err := c.BodyParser(&signals); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Body must be a list of signals")
	}
	accepted, err := s.service.BroadcastSignals(c.UserContext(), signals)
	if err != nil {
		return s.sendDomainError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": accepted})
}
