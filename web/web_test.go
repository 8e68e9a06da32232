package web

import (
	"testing"

	"github.com/ku-unplugged/livelog/web/locale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizerResolvesMessages(t *testing.T) {
	require.NoError(t, locale.InitLocalizer(i18nFS))

	// Top-level keys must not be swallowed by the preceding table.
	assert.Equal(t, "失敗しました", locale.I18n(locale.Web, "fail"))
	assert.Equal(t, "入力内容を確認してください", locale.I18n(locale.Web, "invalidFields"))

	assert.Equal(t, "もう一度ログインしてください", locale.I18n(locale.Web, "pages.login.loginAgain"))
	assert.Equal(t, "曲の申請メールを送信しました", locale.I18n(locale.Web, "entry.mailSent"))
}
