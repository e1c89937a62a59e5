package config

import (
	"github.com/tauraamui/dragoneye/internal/config"
	"github.com/tauraamui/dragoneye/pkg/configdef"
)

func DefaultResolver() configdef.Resolver {
	return config.DefaultResolver()
}

func DefaultCreator() configdef.Creator {
	return config.DefaultCreator()
}

func DefaultDestroyer() configdef.Destroyer {
	return config.DefaultDestroyer()
}
