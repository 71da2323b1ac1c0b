package report

import (
	"github.com/smallbiznis/milkledger/internal/report/export"
	"github.com/smallbiznis/milkledger/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(export.New),
	fx.Provide(service.New),
)
