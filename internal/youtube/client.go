package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"

	"golos/internal/models"
	"golos/internal/platform"
)

// Client はYouTube向けの実Downloader
// YouTube以外のプラットフォームのURLにはエラーを返す
type Client struct {
	client ytdl.Client
}

// NewClient は新しいYouTubeクライアントを作成
func NewClient() *Client {
	return &Client{
		client: ytdl.Client{},
	}
}

// FetchMetadata は動画をダウンロードせずにメタ情報を取得
func (c *Client) FetchMetadata(ctx context.Context, url string) (*models.VideoMetadata, error) {
	if p := platform.Detect(url); p != platform.YouTube {
		return nil, fmt.Errorf("platform %s is not supported by the YouTube downloader", p)
	}

	video, err := c.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}

	meta := &models.VideoMetadata{
		Title:       video.Title,
		Duration:    video.Duration.Seconds(),
		Description: video.Description,
		Platform:    string(platform.YouTube),
		OriginalURL: url,
	}
	if len(video.Thumbnails) > 0 {
		meta.Thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}
	return meta, nil
}

// FetchMedia は最高ビットレートの音声ストリームをdestPathにダウンロードする
// 拡張子はフォーマットに合わせて付与され、最終的なパスを返す
func (c *Client) FetchMedia(ctx context.Context, url, destPath string) (string, error) {
	if p := platform.Detect(url); p != platform.YouTube {
		return "", fmt.Errorf("platform %s is not supported by the YouTube downloader", p)
	}

	video, err := c.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to get video: %w", err)
	}

	format, err := selectAudioFormat(video)
	if err != nil {
		return "", err
	}

	stream, _, err := c.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	path := destPath + extension(format.MimeType)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, stream); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to download stream: %w", err)
	}
	return path, nil
}

// selectAudioFormat は音声のみのフォーマットから最高ビットレートを選ぶ
func selectAudioFormat(video *ytdl.Video) (*ytdl.Format, error) {
	var audio []ytdl.Format
	for _, f := range video.Formats {
		if strings.HasPrefix(f.MimeType, "audio/") {
			audio = append(audio, f)
		}
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio formats available")
	}

	// ビットレート降順でソート
	sort.Slice(audio, func(i, j int) bool {
		return audio[i].Bitrate > audio[j].Bitrate
	})
	return &audio[0], nil
}

// extension はMIMEタイプから拡張子を返す
func extension(mimeType string) string {
	if strings.Contains(mimeType, "mp4") {
		return ".m4a"
	}
	if strings.Contains(mimeType, "webm") {
		return ".webm"
	}
	return ".audio"
}
