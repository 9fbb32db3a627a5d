package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrOffline 数据库不可达：写操作在发出前被拦截
var ErrOffline = errors.New("当前无法连接数据库，请恢复网络后重试")
