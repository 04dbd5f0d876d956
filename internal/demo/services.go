package demo

import (
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/service"
)

// Service tags resolved by the demo actions.
var (
	LoggerTag     = service.NewTag[*zap.Logger]("Logger")
	CacheTag      = service.NewTag[Cache]("Cache")
	RepositoryTag = service.NewTag[Repository]("Repository")
)
