package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// KeySomethingWentWrong 是无描述失败时的兜底文案。
const KeySomethingWentWrong = "notify.somethingWentWrong"

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.Portuguese,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

func init() {
	message.SetString(language.English, KeySomethingWentWrong, "Oops, something went wrong")
	message.SetString(language.Spanish, KeySomethingWentWrong, "Vaya, algo salió mal")
	message.SetString(language.Portuguese, KeySomethingWentWrong, "Ops, algo deu errado")
	message.SetString(language.SimplifiedChinese, KeySomethingWentWrong, "哎呀，出错了")
}

// ResolveLocale 把 lang 参数或 Accept-Language 匹配到已支持的语言，默认英语。
func ResolveLocale(values ...string) language.Tag {
	_, idx := language.MatchStrings(matcher, values...)
	return supported[idx]
}

// SomethingWentWrong 返回本地化的兜底文案。
func SomethingWentWrong(tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf(KeySomethingWentWrong)
}
