// Package vue_extractor projects the TypeScript script block of a Vue
// single-file component into a standalone source string.
package vue_extractor

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	// SyntheticExtension is the real file extension that gets a virtual
	// TypeScript projection.
	SyntheticExtension = ".vue"
	// VirtualSuffix is appended to a component path to form its virtual path.
	VirtualSuffix = ".ts"

	paddingLine = "//\n"
)

// ExtractScript returns the content of the component's <script lang="ts">
// block, prefixed with one "//" line per newline that precedes the block
// content, so line numbers in the result match the component file.
//
// A missing script block, a script without lang="ts" (an absent lang is
// JavaScript) or an unparsable component yields "".
func ExtractScript(rawVueFileText string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawVueFileText))
	offset := 0

	for {
		tokenType := tokenizer.Next()
		offset += len(tokenizer.Raw())

		switch tokenType {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "script" {
				continue
			}

			attrs := readAttributes(tokenizer, hasAttr)
			if _, isSetup := attrs["setup"]; isSetup {
				continue
			}
			if lang, ok := attrs["lang"]; !ok || lang != "ts" {
				return ""
			}

			content, ok := readScriptContent(tokenizer)
			if !ok {
				return ""
			}

			lineCount := strings.Count(rawVueFileText[:offset], "\n")
			return strings.Repeat(paddingLine, lineCount) + content
		}
	}
}

// VirtualPath returns the virtual TypeScript path for a component path.
func VirtualPath(realPath string) string {
	return realPath + VirtualSuffix
}

// IsSyntheticSource reports whether realPath is projected through ExtractScript.
func IsSyntheticSource(realPath string) bool {
	return strings.HasSuffix(realPath, SyntheticExtension)
}

func readAttributes(tokenizer *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = tokenizer.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}

// readScriptContent consumes the raw text of a script element up to its end
// tag. An unterminated element is reported as not ok.
func readScriptContent(tokenizer *html.Tokenizer) (string, bool) {
	var content string

	tokenType := tokenizer.Next()
	if tokenType == html.TextToken {
		content = string(tokenizer.Raw())
		tokenType = tokenizer.Next()
	}

	if tokenType != html.EndTagToken {
		return "", false
	}
	name, _ := tokenizer.TagName()
	if string(name) != "script" {
		return "", false
	}

	return content, true
}
