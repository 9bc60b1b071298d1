package services

import "errors"

// 业务错误定义，控制器据此映射HTTP状态码
var (
	// ErrNotFound 资源不存在或请求者无权访问，对外统一表现为不存在
	ErrNotFound = errors.New("资源不存在或无权限")

	// ErrEntryTooLong 条目文本超出长度限制
	ErrEntryTooLong = errors.New("文本内容最多5000字")

	// ErrInsufficientData 窗口内数据不足，无法生成洞察
	ErrInsufficientData = errors.New("数据不足")

	// ErrConfigDisabled 对应的洞察配置已停用
	ErrConfigDisabled = errors.New("洞察配置已停用")

	// ErrConfigLimit 自定义洞察配置数量达到上限
	ErrConfigLimit = errors.New("自定义洞察配置最多10个")

	// ErrSystemConfigImmutable 系统配置不允许修改
	ErrSystemConfigImmutable = errors.New("系统配置不允许修改")

	// ErrReorderMismatch 重排序ID列表与用户自定义配置不一致
	ErrReorderMismatch = errors.New("排序列表与自定义配置不匹配")
)
