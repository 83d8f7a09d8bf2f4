package handlers

import (
	"fmt"
	"net/http"

	"bandz-backend/internal/scheduler"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetSettings exposes the photo window policy. Read-only for now; the
// windows are fixed product policy, not per-practice configuration.
func GetSettings(c *gin.Context) {
	type windowInfo struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Label string `json:"label"`
	}

	keys := map[int]string{1: "morning", 2: "midday", 3: "evening"}
	labels := map[int]string{
		1: "8:00 AM – 10:00 AM",
		2: "12:00 PM – 3:00 PM",
		3: "7:00 PM – 9:00 PM",
	}

	windows := map[string]windowInfo{}
	for _, w := range scheduler.Windows {
		windows[keys[w.Slot]] = windowInfo{
			Start: fmt.Sprintf("%02d:00", w.StartHour),
			End:   fmt.Sprintf("%02d:00", w.EndHour),
			Label: labels[w.Slot],
		}
	}

	utils.APIResponse(c, http.StatusOK, true, "Settings", gin.H{
		"photo_windows":           windows,
		"deadline_offset_minutes": int(scheduler.DeadlineOffset.Minutes()),
	})
}
