package engine

// seed is the built-in engine list. Defaults returns a copy so callers can
// never mutate it.
var seed = []Engine{
	{ID: "google", Name: "Google", URL: "https://www.google.com/search?q=%s", Badge: "G", Domain: "google.com", Param: "q", IsTarget: true, IsSource: true},
	{ID: "baidu", Name: "百度", URL: "https://www.baidu.com/s?wd=%s", Badge: "百度", Domain: "baidu.com", Param: "wd", IsTarget: true, IsSource: true},
	{ID: "bing", Name: "Bing", URL: "https://www.bing.com/search?q=%s", Badge: "Bing", Domain: "bing.com", Param: "q", IsTarget: true, IsSource: true},
	{ID: "bing_cn", Name: "Bing 中国", URL: "https://cn.bing.com/search?q=%s", Badge: "Bing", Domain: "cn.bing.com", Param: "q", IsSource: true},
	{ID: "duckduckgo", Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q=%s", Badge: "D", Domain: "duckduckgo.com", Param: "q", IsTarget: true, IsSource: true},
	{ID: "sogou", Name: "搜狗", URL: "https://www.sogou.com/web?query=%s", Badge: "搜狗", Domain: "sogou.com", Param: "query", IsSource: true},
	{ID: "so", Name: "360搜索", URL: "https://www.so.com/s?q=%s", Badge: "360", Domain: "so.com", Param: "q", IsSource: true},
	{ID: "yandex", Name: "Yandex", URL: "https://yandex.com/search/?text=%s", Badge: "Y", Domain: "yandex.com", Param: "text", IsSource: true},
	{ID: "yahoo", Name: "Yahoo", URL: "https://search.yahoo.com/search?p=%s", Badge: "Y!", Domain: "search.yahoo.com", Param: "p", IsSource: true},
}

// Defaults returns the seed settings written on first install and restored
// by reset-to-defaults.
func Defaults() Settings {
	engines := make([]Engine, len(seed))
	copy(engines, seed)
	return Settings{
		SelectedTargetEngineID: FallbackID,
		ShowBadge:              false,
		Engines:                engines,
	}
}
