package dispatch

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

type appKey struct{}

type localeKey struct{}

// WithApp 把请求级 app 标识放入 context，空值忽略。
func WithApp(ctx context.Context, app string) context.Context {
	app = strings.TrimSpace(app)
	if app == "" {
		return ctx
	}
	return context.WithValue(ctx, appKey{}, app)
}

// AppFrom 读取 app 标识，缺失时返回 def。
func AppFrom(ctx context.Context, def string) string {
	if ctx != nil {
		if app, ok := ctx.Value(appKey{}).(string); ok && app != "" {
			return app
		}
	}
	return def
}

// WithLocale 设置兜底文案使用的语言。
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

// LocaleFrom 读取语言，默认英语。
func LocaleFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if tag, ok := ctx.Value(localeKey{}).(language.Tag); ok {
			return tag
		}
	}
	return language.English
}
