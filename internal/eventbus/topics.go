package eventbus

// Topic names a channel on the bus
type Topic string

const (
	// TopicShowPlanet carries the *planet.Planet the camera should focus on
	TopicShowPlanet Topic = "show:planet"

	TopicPlanetFormed   Topic = "planet:formed"
	TopicPlanetReformed Topic = "planet:reformed"
	TopicSystemLayout   Topic = "system:layout"

	TopicShipCommissioned Topic = "ship:commissioned"
	TopicShipDispatched   Topic = "ship:dispatched"
	TopicShipState        Topic = "ship:state"
	TopicShipFire         Topic = "ship:fire"

	// TopicUniverseOpen is published every time the upstream channel (re)connects
	TopicUniverseOpen Topic = "universe:open"
)

// AllTopics lists every topic the core publishes, in a stable order
var AllTopics = []Topic{
	TopicShowPlanet,
	TopicPlanetFormed,
	TopicPlanetReformed,
	TopicSystemLayout,
	TopicShipCommissioned,
	TopicShipDispatched,
	TopicShipState,
	TopicShipFire,
	TopicUniverseOpen,
}
