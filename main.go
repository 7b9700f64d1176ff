package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"

	"github.com/ConserveLee/seedbot/app/seedshop"
	"github.com/ConserveLee/seedbot/app/tools"
	"github.com/ConserveLee/seedbot/internal/config"
	"github.com/ConserveLee/seedbot/internal/constants"
	"github.com/ConserveLee/seedbot/internal/logger"
)

func main() {
	cfgFlag := flag.String("config", "", "path to config.json")
	flag.Parse()

	cfgPath, err := config.FindConfig(*cfgFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logData := binding.NewStringList()
	opts := []logger.Option{logger.WithConsole(), logger.WithBinding(logData, constants.UILogMaxLines)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile))
	}
	appLogger, err := logger.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Close()
	appLogger.Info("Config loaded from %s", cfgPath)

	myApp := app.New()
	myWindow := myApp.NewWindow("Seed Shop Bot")
	myWindow.Resize(fyne.NewSize(560, 680))

	shopPanel := seedshop.NewPanel(myWindow, cfg, appLogger, logData)
	tabs := container.NewAppTabs(
		container.NewTabItem("Seed Shop", shopPanel.Content()),
		container.NewTabItem("Tools", tools.NewToolsPanel(myWindow, cfg, cfgPath, appLogger)),
	)
	tabs.SetTabLocation(container.TabLocationTop)

	myWindow.SetOnClosed(shopPanel.Close)
	myWindow.SetContent(tabs)
	myWindow.ShowAndRun()
}
