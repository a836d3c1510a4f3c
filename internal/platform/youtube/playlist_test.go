package youtube

import (
	"context"
	"reflect"
	"testing"
)

func TestResolvePlaylists(t *testing.T) {
	// 远端已有 "Music" → PL1，创建一律返回 PL-new
	tests := []struct {
		name        string
		playlist    Playlist
		wantIDs     []string
		wantCreates int
	}{
		{
			name:     "exists_reuse",
			playlist: Playlist{Title: "Music", CreateIfTitleDoesntExist: true},
			wantIDs:  []string{"PL1"},
		},
		{
			name:        "exists_force_create",
			playlist:    Playlist{Title: "Music", CreateIfTitleExists: true},
			wantIDs:     []string{"PL-new"},
			wantCreates: 1,
		},
		{
			name:        "missing_create",
			playlist:    Playlist{Title: "NewPL", CreateIfTitleDoesntExist: true},
			wantIDs:     []string{"PL-new"},
			wantCreates: 1,
		},
		{
			name:     "missing_skip",
			playlist: Playlist{Title: "NewPL"},
			wantIDs:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := newFakeTransport()
			u := testUploader(t, transport, nil)

			m := &Metadata{Title: "测试", Playlists: []Playlist{tt.playlist}}
			if err := u.resolvePlaylists(context.Background(), testSession(), m); err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(m.PlaylistIDs, tt.wantIDs) {
				t.Errorf("解析出的播放列表ID不符: %v, want %v", m.PlaylistIDs, tt.wantIDs)
			}
			if got := transport.countCalls(createPlaylistURL); got != tt.wantCreates {
				t.Errorf("创建请求次数不符: %d, want %d", got, tt.wantCreates)
			}
			if transport.countCalls(listPlaylistsURL) != 1 {
				t.Error("应恰好拉取一次现有播放列表")
			}
		})
	}
}

func TestResolvePlaylistsAppendsToExistingIDs(t *testing.T) {
	transport := newFakeTransport()
	u := testUploader(t, transport, nil)

	m := &Metadata{
		Title:       "测试",
		PlaylistIDs: []string{"PL-manual"},
		Playlists:   []Playlist{{Title: "Music"}},
	}
	if err := u.resolvePlaylists(context.Background(), testSession(), m); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m.PlaylistIDs, []string{"PL-manual", "PL1"}) {
		t.Errorf("解析出的ID应追加到已有列表之后: %v", m.PlaylistIDs)
	}
}
