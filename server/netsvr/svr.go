// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package netsvr

import (
	"net/http"

	"github.com/zintix-labs/flexcat/server/app"
)

// NetSvr 路由行為 + 服務啟停。只交給最外層組裝（server.Run）使用；
// 換成其他 http 框架時實作此介面即可。NetSvr 同時是 app.Component。
type NetSvr interface {
	NetRouter
	app.Component
	// Handler 已註冊完路由的 http.Handler（測試或掛到既有服務底下）
	Handler() http.Handler
}

// NetRouter 純路由行為，不含 Run/Shutdown；handler 與子模組只拿得到這一層。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
