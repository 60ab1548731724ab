package httpstore

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"objrel/codec"
	"objrel/objid"
	"objrel/store"

	"github.com/gin-gonic/gin"
	"github.com/samber/mo"
)

type ServerOptions struct {
	// when set, requests must carry matching credential headers
	ApplicationID string
	ClientKey     string
	Logger        *slog.Logger
}

type Server struct {
	backend store.Store
	opts    ServerOptions
	log     *slog.Logger
	engine  *gin.Engine
}

func NewServer(backend store.Store, opts ServerOptions) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	s := &Server{backend: backend, opts: opts, log: log, engine: engine}

	engine.Use(gin.Recovery(), s.logRequests, s.authenticate)

	api := engine.Group("/1")
	api.POST("/classes/:class", s.create)
	api.PUT("/classes/:class/:id", s.update)
	api.GET("/classes/:class/:id", s.fetch)
	api.POST("/query/:class", s.query)
	api.POST("/related/:class/:id/:relation", s.queryRelated)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start))
}

func (s *Server) authenticate(c *gin.Context) {
	if s.opts.ApplicationID == "" && s.opts.ClientKey == "" {
		return
	}

	appID := c.GetHeader(HeaderApplicationID)
	key := c.GetHeader(HeaderClientKey)
	if subtle.ConstantTimeCompare([]byte(appID), []byte(s.opts.ApplicationID)) != 1 ||
		subtle.ConstantTimeCompare([]byte(key), []byte(s.opts.ClientKey)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{http.StatusUnauthorized, "unauthorized"})
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("store failure", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, errorResponse{Code: status, Error: err.Error()})
}

// bind decodes a JSON body keeping integers intact.
func bind[T any](c *gin.Context) (T, bool) {
	var v T
	data, err := c.GetRawData()
	if err == nil {
		v, err = codec.JsonDecode[T](data)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{http.StatusBadRequest, "malformed body: " + err.Error()})
		return v, false
	}
	return v, true
}

func (s *Server) create(c *gin.Context) {
	s.save(c, mo.None[objid.ID](), http.StatusCreated)
}

func (s *Server) update(c *gin.Context) {
	s.save(c, mo.Some(objid.ID(c.Param("id"))), http.StatusOK)
}

func (s *Server) save(c *gin.Context, id mo.Option[objid.ID], status int) {
	req, ok := bind[saveRequest](c)
	if !ok {
		return
	}

	fields, err := store.DecodeFields(req.Fields)
	if err != nil {
		s.fail(c, err)
		return
	}

	saved, err := s.backend.Save(c.Request.Context(), c.Param("class"), id, fields, editsFromWire(req.Edits))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(status, saveResponse{ObjectID: saved.String()})
}

func (s *Server) fetch(c *gin.Context) {
	fields, err := s.backend.Fetch(c.Request.Context(), c.Param("class"), objid.ID(c.Param("id")))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, fetchResponse{Fields: store.EncodeFields(fields)})
}

func (s *Server) query(c *gin.Context) {
	req, filters, ok := s.bindQuery(c)
	if !ok {
		return
	}

	objs, err := s.backend.Query(c.Request.Context(), c.Param("class"), filters, req.Limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toQueryResponse(objs))
}

func (s *Server) queryRelated(c *gin.Context) {
	req, filters, ok := s.bindQuery(c)
	if !ok {
		return
	}

	source := store.Pointer{ClassName: c.Param("class"), ObjectID: objid.ID(c.Param("id"))}
	objs, err := s.backend.QueryRelated(c.Request.Context(), source, c.Param("relation"), filters, req.Limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toQueryResponse(objs))
}

func (s *Server) bindQuery(c *gin.Context) (queryRequest, []store.Filter, bool) {
	req, ok := bind[queryRequest](c)
	if !ok {
		return req, nil, false
	}

	filters, err := filtersFromWire(req.Filters)
	if err != nil {
		s.fail(c, err)
		return req, nil, false
	}

	return req, filters, true
}

func toQueryResponse(objs []store.Object) queryResponse {
	resp := queryResponse{Results: make([]wireObject, 0, len(objs))}
	for _, o := range objs {
		resp.Results = append(resp.Results, wireObject{
			ObjectID:  o.ID.String(),
			ClassName: o.ClassName,
			Fields:    store.EncodeFields(o.Fields),
		})
	}
	return resp
}
