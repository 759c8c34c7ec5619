package main

import (
	"github.com/lsegpor/Forniture4U-sub000/internal/app"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/worker"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/worker/handler"

	"go.uber.org/fx"
)

func main() {
	fx.New(app.Options(
		fx.Module("push",
			fx.Provide(handler.NewPushHandler),
			app.AsDelivery(worker.NewServer),
		),
	)).Run()
}
