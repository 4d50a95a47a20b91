package conf

type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// Data 与 controversy_radar 的 storage 配置保持一致，两边读写同一份周报
type Data struct {
	Driver string `json:"driver"`
	Dir    string `json:"dir"`
	Dsn    string `json:"dsn"`
	Db     *DB    `json:"db"`
	Redis  *Redis `json:"redis"`
}

// DB 未配置 dsn 时用于拼接 postgres 连接串
type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	Db       int32  `json:"db"`
	Prefix   string `json:"prefix"`
}
