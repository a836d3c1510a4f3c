package youtube

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/7x11x13/youtube-up/internal/config"
	"github.com/7x11x13/youtube-up/internal/types"
	"github.com/7x11x13/youtube-up/internal/utils"

	"github.com/tidwall/gjson"
)

// listCreatorPlaylists 拉取频道现有播放列表，返回 标题→ID 映射
func (u *Uploader) listCreatorPlaylists(ctx context.Context, s *sessionData) (map[string]string, error) {
	payload, err := json.Marshal(newListPlaylistsRequest(s, u.sessionToken))
	if err != nil {
		return nil, types.NewUploadError("list_playlists", "序列化请求失败: %v", err)
	}
	resp, err := u.innertubePost(ctx, listPlaylistsURL, s, payload)
	if err != nil {
		return nil, types.NewTransportError("list_playlists", err)
	}
	if !resp.OK() {
		return nil, types.NewTransportError("list_playlists", fmt.Errorf("HTTP %d", resp.Status))
	}

	playlists := make(map[string]string)
	for _, item := range gjson.GetBytes(resp.Body, "playlists").Array() {
		playlists[item.Get("title").String()] = item.Get("playlistId").String()
	}
	return playlists, nil
}

// createPlaylist 创建播放列表，返回新ID
func (u *Uploader) createPlaylist(ctx context.Context, s *sessionData, pl Playlist) (string, error) {
	payload, err := json.Marshal(newCreatePlaylistRequest(s, u.sessionToken, pl))
	if err != nil {
		return "", types.NewUploadError("create_playlist", "序列化请求失败: %v", err)
	}
	resp, err := u.innertubePost(ctx, createPlaylistURL, s, payload)
	if err != nil {
		return "", types.NewTransportError("create_playlist", err)
	}
	if !resp.OK() {
		return "", types.NewTransportError("create_playlist", fmt.Errorf("HTTP %d", resp.Status))
	}

	playlistID := gjson.GetBytes(resp.Body, "playlistId").String()
	if playlistID == "" {
		return "", types.NewUploadError("create_playlist", "响应中缺少播放列表ID")
	}
	return playlistID, nil
}

// resolvePlaylists 按四态决策表处理播放列表声明
// 决策键：同名列表是否已存在 × 两个 create 开关
// 解析出的ID全部追加到 metadata 的 playlist_ids
func (u *Uploader) resolvePlaylists(ctx context.Context, s *sessionData, m *Metadata) error {
	existing, err := u.listCreatorPlaylists(ctx, s)
	if err != nil {
		return err
	}

	if m.PlaylistIDs == nil {
		m.PlaylistIDs = []string{}
	}
	for _, pl := range m.Playlists {
		existingID, exists := existing[pl.Title]
		switch {
		case (exists && pl.CreateIfTitleExists) || (!exists && pl.CreateIfTitleDoesntExist):
			// 允许同名重复创建
			playlistID, err := u.createPlaylist(ctx, s, pl)
			if err != nil {
				return err
			}
			utils.InfoWithPlatform(config.PlatformYouTube, fmt.Sprintf("已创建播放列表: %s", pl.Title))
			m.PlaylistIDs = append(m.PlaylistIDs, playlistID)
		case exists:
			m.PlaylistIDs = append(m.PlaylistIDs, existingID)
		default:
			// 不存在且不允许创建：跳过
		}
	}
	return nil
}
