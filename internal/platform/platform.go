package platform

import "strings"

// Platform identifies the video hosting service behind a URL.
type Platform string

const (
	YouTube   Platform = "youtube"
	Instagram Platform = "instagram"
	VKontakte Platform = "vkontakte"
	TikTok    Platform = "tiktok"
	Other     Platform = "other"
)

// domains maps each supported platform to its known domain fragments.
var domains = map[Platform][]string{
	YouTube:   {"youtube.com", "youtu.be", "m.youtube.com"},
	Instagram: {"instagram.com", "www.instagram.com"},
	VKontakte: {"vk.com", "vkontakte.ru", "m.vk.com"},
	TikTok:    {"tiktok.com", "www.tiktok.com", "m.tiktok.com"},
}

// Detect returns the platform for a video URL by case-insensitive
// substring match against known domains. Unknown hosts map to Other.
func Detect(url string) Platform {
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be"):
		return YouTube
	case strings.Contains(u, "instagram.com"):
		return Instagram
	case strings.Contains(u, "vk.com") || strings.Contains(u, "vkontakte.ru"):
		return VKontakte
	case strings.Contains(u, "tiktok.com"):
		return TikTok
	default:
		return Other
	}
}

// Supported returns the platforms the service accepts URLs from.
func Supported() []Platform {
	return []Platform{YouTube, Instagram, VKontakte, TikTok}
}
