package service

import "time"

// Clock 当前时间来源，测试里替换
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
