package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Invalid credentials", T("en", KeyAuthInvalidCredentials))
	assert.Equal(t, "帳號或密碼錯誤", T("zh_TW", KeyAuthInvalidCredentials))
	assert.Equal(t, "Order cannot move from Delivered to Placed", T("en", KeyOrderInvalidTransition, "Delivered", "Placed"))

	// unknown language falls back to English, unknown key to itself
	assert.Equal(t, "Please login first", T("fr", KeyAuthLoginFirst))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
	assert.ElementsMatch(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}

func TestLocalesHaveSameKeys(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := localesFS.ReadFile("locales/" + name)
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	en, zh := load("en.json"), load("zh_TW.json")
	for key := range en {
		assert.Contains(t, zh, key)
	}
	assert.Len(t, zh, len(en))
}
