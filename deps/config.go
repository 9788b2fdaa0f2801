package deps

import (
	"github.com/tryanzu/gomarket/core/config"
)

func IgniteConfig(container Deps) (Deps, error) {
	cfg, err := config.Load(container.ConfigFile)
	if err != nil {
		return container, err
	}
	container.ConfigProvider = cfg
	return container, nil
}
