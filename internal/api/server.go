package api

import (
	"go.uber.org/zap"

	"github.com/youruser/idcardapp/internal/card"
	"github.com/youruser/idcardapp/internal/config"
	"github.com/youruser/idcardapp/internal/holders"
)

// Server carries the dependencies shared by the handlers. Each request
// renders onto its own surface, so handlers run concurrently.
type Server struct {
	cfg      *config.Config
	renderer *card.Renderer
	holders  *holders.Directory
	logger   *zap.Logger
}

func NewServer(cfg *config.Config, renderer *card.Renderer, dir *holders.Directory, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == nil {
		dir = holders.NewDirectory(nil)
	}
	return &Server{cfg: cfg, renderer: renderer, holders: dir, logger: logger}
}
