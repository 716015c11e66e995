package config

type RedisKeyStruct struct{}

func NewRedisKeyStruct() *RedisKeyStruct {
	return &RedisKeyStruct{}
}

// Session returns the Redis key holding the identity payload for a session ID
func (r *RedisKeyStruct) Session(sid string) string {
	return "session:" + sid
}

// ResetMailQueue returns the Redis list consumed by the reset-mail worker
func (r *RedisKeyStruct) ResetMailQueue() string {
	return "reset_mail_queue"
}

var RedisKey = NewRedisKeyStruct()
