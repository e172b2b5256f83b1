package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dshills/prefsdoc/internal/settings/model"
	"github.com/dshills/prefsdoc/internal/settings/watch"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

var watchLog = commonlog.GetLogger("prefsdoc.watch")

func newWatchCmd() *cobra.Command {
	var rootProperty string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Monitor a settings file and re-parse it on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			// The file may not exist yet; the monitor reports its creation.
			content := ""
			if data, err := os.ReadFile(path); err == nil {
				content = string(data)
			}

			doc := textdoc.NewDocument(content)
			mdl := model.NewDocumentModel(doc, rootRule(rootProperty))
			defer mdl.Close()

			mon, err := watch.NewMonitor(path, watch.WithDebounce(debounce))
			if err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			defer mon.Close()

			watchLog.Noticef("watching %s", mon.Path())
			logCounts(mdl)

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

			for {
				select {
				case ev, ok := <-mon.Events():
					if !ok {
						return nil
					}
					if ev.Op.Has(watch.OpRemove) && !ev.Op.Has(watch.OpCreate) {
						watchLog.Noticef("%s removed", ev.Path)
						continue
					}
					data, err := os.ReadFile(ev.Path)
					if err != nil {
						watchLog.Errorf("read %s: %s", ev.Path, err.Error())
						continue
					}
					if err := doc.SetContent(string(data)); err != nil {
						return err
					}
					watchLog.Debugf("%s %s", ev.Path, ev.Op)
					logCounts(mdl)
				case err, ok := <-mon.Errors():
					if ok && err != nil {
						watchLog.Errorf("%s", err.Error())
					}
				case <-signals:
					return nil
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "coalesce window for file events")
	cmd.Flags().StringVar(&rootProperty, "root", "", "property the settings root is nested under")

	return cmd
}

func logCounts(mdl *model.DocumentModel) {
	groups := mdl.Groups()
	count := 0
	for _, g := range groups {
		count += len(g.Settings())
	}
	watchLog.Noticef("parsed %d groups, %d settings", len(groups), count)
}
