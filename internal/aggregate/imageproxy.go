// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package aggregate

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/mangabridge/internal/platform/apperr"
	"github.com/taibuivan/mangabridge/internal/platform/ctxutil"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	requestutil "github.com/taibuivan/mangabridge/internal/platform/request"
	"github.com/taibuivan/mangabridge/internal/platform/respond"
	"github.com/taibuivan/mangabridge/internal/platform/validate"
	"github.com/taibuivan/mangabridge/internal/source/nhentai"
)

// imageCacheControl lets browsers keep proxied images for a day.
const imageCacheControl = "public, max-age=86400"

// ImageProxy streams hotlink-protected images with the Referer their CDN expects.
//
// # Security
//
// Only hosts present in the allow-list are fetched, so the endpoint cannot be
// used to reach arbitrary URLs.
type ImageProxy struct {
	client   *httpclient.Client
	referers map[string]string
}

// NewImageProxy creates a proxy allowing the nhentai CDN hosts.
func NewImageProxy(client *httpclient.Client) *ImageProxy {
	proxy := &ImageProxy{client: client, referers: make(map[string]string)}
	proxy.Allow(nhentai.Referer, nhentai.ImageHosts...)
	return proxy
}

// Allow adds hosts to the allow-list, fetched with the given referer.
func (proxy *ImageProxy) Allow(referer string, hosts ...string) {
	for _, host := range hosts {
		proxy.referers[strings.ToLower(host)] = referer
	}
}

// ServeHTTP handles GET /images?url=.
func (proxy *ImageProxy) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	imageURL := requestutil.Query(request, "url")

	validator := &validate.Validator{}
	validator.Required("url", imageURL).URL("url", imageURL)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	parsed, _ := url.Parse(imageURL)
	referer, allowed := proxy.referers[strings.ToLower(parsed.Hostname())]
	if !allowed {
		respond.Error(writer, request, apperr.Forbidden("Image host is not allowed"))
		return
	}

	response, err := proxy.client.Stream(request.Context(), imageURL, httpclient.WithHeader("Referer", referer))
	if err != nil {
		respond.Error(writer, request, apperr.BadGateway("Image could not be fetched", err))
		return
	}
	defer response.Body.Close()

	header := writer.Header()
	for _, name := range []string{"Content-Type", "Content-Length", "Last-Modified", "ETag"} {
		if value := response.Header.Get(name); value != "" {
			header.Set(name, value)
		}
	}
	header.Set("Cache-Control", imageCacheControl)
	writer.WriteHeader(http.StatusOK)

	if _, err := io.Copy(writer, response.Body); err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "image_proxy_copy_failed",
			slog.String("host", parsed.Hostname()),
			slog.Any("error", err),
		)
	}
}
