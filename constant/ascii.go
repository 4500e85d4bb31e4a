package constant

// AsciiArtLogo is the stylized application banner rendered on the root command.
const AsciiArtLogo = `
 ██╗   ██╗██╗██████╗ ███████╗████████╗ █████╗  ██████╗██╗  ██╗
 ██║   ██║██║██╔══██╗██╔════╝╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝
 ██║   ██║██║██║  ██║███████╗   ██║   ███████║██║     █████╔╝
 ╚██╗ ██╔╝██║██║  ██║╚════██║   ██║   ██╔══██║██║     ██╔═██╗
  ╚████╔╝ ██║██████╔╝███████║   ██║   ██║  ██║╚██████╗██║  ██╗
   ╚═══╝  ╚═╝╚═════╝ ╚══════╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝`
