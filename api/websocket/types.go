package websocket

// ConnectParams are the query parameters accepted by the status feed
type ConnectParams struct {
	Token string `form:"token"` // jwt token for authenticated users
}
