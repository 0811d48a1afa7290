package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/api"
	"showcase/carousel"
	"showcase/config"
	"showcase/models"
	"showcase/showcase"
	"showcase/store"
)

type viewFrame struct {
	Type string         `json:"type"`
	View *showcase.View `json:"view"`
}

// Memory store -> manager -> websocket viewer, then an upstream catalog edit shrinks the
// showcase under a mounted viewer.
func TestViewerFollowsCatalogEdits(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	mem := st.(*store.MemoryStore)

	cfg := carousel.Config{
		AutoplayInterval: 200 * time.Millisecond,
		TransitionDelay:  4 * time.Millisecond,
		SettleDelay:      1 * time.Millisecond,
		ResumeCooldown:   time.Hour,
		Autoplay:         true,
	}
	mgr, err := showcase.NewManager(st, nil, cfg)
	require.NoError(t, err)
	defer mgr.Close()

	srv := httptest.NewServer(api.NewServer(mgr, nil, st, 512))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?showcase=videos"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() viewFrame {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var f viewFrame
		require.NoError(t, conn.ReadJSON(&f))
		return f
	}

	first := read()
	require.Equal(t, "view", first.Type)
	assert.Equal(t, 3, first.View.Total)
	assert.Equal(t, models.KindVideo, first.View.Item.Kind)

	// autoplay rotates on its own
	for {
		f := read()
		if f.Type == "view" && f.View.CurrentIndex == 1 {
			break
		}
	}

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": "goto", "index": 2}))
	for {
		f := read()
		if f.Type == "view" && f.View.CurrentIndex == 2 && !f.View.IsTransitioning {
			assert.False(t, f.View.IsAutoPlaying)
			break
		}
	}

	require.NoError(t, mem.DeleteItem(ctx, "video-interview-leadership"))
	resp, err := http.Post(srv.URL+"/api/showcases/videos/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	for {
		f := read()
		if f.Type == "view" && f.View.Total == 2 {
			assert.Equal(t, 1, f.View.CurrentIndex)
			assert.Equal(t, "Spot TV - Lancement Produit", f.View.Item.Title)
			break
		}
	}
}
