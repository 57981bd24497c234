// src/importers/factory.go
package importers

import "fmt"

func GetImporter(source string, cfg Config) (*Importer, error) {
	switch source {
	case "wechat":
		return NewWeChatImporter(cfg), nil
	case "alipay":
		return NewAlipayImporter(cfg), nil
	default:
		return nil, fmt.Errorf("no importer available for source: %s", source)
	}
}
