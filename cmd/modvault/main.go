// Package main 启动应用程序
package main

import "github.com/strixun/modvault/pkg/cmd"

//	@title			ModVault API
//	@version		1.0
//	@description	ModVault 是一个多租户的加密制品存储服务，提供制品版本上传、下载、完整性校验与公开徽章等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
