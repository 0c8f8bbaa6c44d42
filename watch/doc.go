// Package watch republishes a theme whenever its source files change.
//
// A [Watcher] loads the files once in [New] and then, while [Watcher.Run] is
// active, rebuilds the theme after each burst of file events settles. Rebuilds
// are serialized. A rebuild that fails leaves the previous snapshot in place,
// and one that is overtaken by a newer change is dropped.
//
//	w, err := watch.New(ctx, []string{"theme.rasi"})
//	if err != nil {
//		return err
//	}
//	events, stop := w.Subscribe()
//	defer stop()
//	go w.Run(ctx)
//	for range events {
//		redraw(w.Snapshot())
//	}
package watch
