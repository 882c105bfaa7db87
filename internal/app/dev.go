package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// devRoutes exposes a readiness probe and a hook that drives the running
// session into a named demo scenario.
func (a *App) devRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	dev := r.Group("/__dev")
	dev.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.getDevState())
	})
	dev.GET("/demos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"demos": a.demo.Names()})
	})
	dev.POST("/demo", func(c *gin.Context) {
		var req struct {
			Demo string `json:"demo"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid json"})
			return
		}
		req.Demo = strings.TrimSpace(req.Demo)
		if req.Demo == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "demo is required"})
			return
		}
		a.logger.Info("dev.demo.request", map[string]any{"demo": req.Demo})

		sc := a.demo.Resolve(req.Demo)
		a.setDevState(sc.Name, "")
		if a.view != nil {
			a.view.Inject(a.demo.Events(sc)...)
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := a.demo.SetState(ctx, "", sc.Name, true); err != nil {
			a.setDevState(sc.Name, err.Error())
			a.logger.Error("dev.demo.apply_failed", map[string]any{"demo": req.Demo, "resolved": sc.Name, "error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error(), "state": sc.Name})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "state": sc.Name, "requested": req.Demo, "commands": sc.Commands})
	})
	return r
}

func (a *App) startDevHTTP() error {
	srv := &http.Server{Addr: a.cfg.DevHTTP, Handler: a.devRoutes(), ReadHeaderTimeout: 5 * time.Second}
	a.devMu.Lock()
	a.devServer = srv
	a.devMu.Unlock()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("dev_http.listen_failed", map[string]any{"error": err.Error(), "addr": a.cfg.DevHTTP})
		}
	}()
	return nil
}

func (a *App) setDevState(state, errText string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Rendered = errText == ""
	a.devState.Error = errText
}

func (a *App) devStateName() string {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return a.devState.State
}

func (a *App) getDevState() map[string]any {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return map[string]any{
		"state":    a.devState.State,
		"rendered": a.devState.Rendered,
		"error":    a.devState.Error,
		"session":  a.sessionID,
	}
}
