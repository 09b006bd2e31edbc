package renderer

import (
	"fmt"
	"time"

	"github.com/achilleasa/go-raytrace/tracer"
)

type WorkerStat struct {
	// The worker id.
	Id string

	// The number of tiles rendered by the worker and the percentage of
	// total frame tiles it represents.
	Tiles        int
	FramePercent float32

	// Time spent rendering tiles.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Number of tiles the frame was split into.
	Tiles int

	// Traced ray counters.
	Rays tracer.RayStats

	// Total render time for entire frame.
	RenderTime time.Duration
}

func makeFrameStats(trStats tracer.FrameStats) FrameStats {
	stats := FrameStats{
		Workers:    make([]WorkerStat, len(trStats.Workers)),
		Tiles:      trStats.Tiles,
		Rays:       trStats.Rays,
		RenderTime: trStats.RenderTime,
	}

	for index, ws := range trStats.Workers {
		stats.Workers[index] = WorkerStat{
			Id:         fmt.Sprintf("worker-%02d", index),
			Tiles:      ws.Tasks,
			RenderTime: ws.BusyTime,
		}
		if trStats.Tiles > 0 {
			stats.Workers[index].FramePercent = 100 * float32(ws.Tasks) / float32(trStats.Tiles)
		}
	}
	return stats
}
