package delivery

import (
	"github.com/smallbiznis/milkledger/internal/delivery/repository"
	"github.com/smallbiznis/milkledger/internal/delivery/service"
	"go.uber.org/fx"
)

var Module = fx.Module("delivery.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
